package xva

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testCounterparty() *Counterparty {
	return &Counterparty{Name: "SocGen", HazardRate: 0.02, RecoveryRate: 0.4}
}

func TestAggregateExposure_EmptyPortfolioIsZero(t *testing.T) {
	paths, grid, err := SimulateSpotPaths(baseSimulation())
	require.NoError(t, err)

	exposures, err := NewPortfolio(testCounterparty()).AggregateExposure(paths, grid)
	require.NoError(t, err)

	r, c := paths.Dims()
	er, ec := exposures.Dims()
	assert.Equal(t, r, er)
	assert.Equal(t, c, ec)
	assert.True(t, mat.Equal(exposures, mat.NewDense(r, c, nil)))
}

func TestAggregateExposure_SumsTrades(t *testing.T) {
	paths := mat.NewDense(2, 3, []float64{
		1.0, 1.2, 0.7,
		1.0, 0.9, 1.5,
	})
	grid := TimeGrid{0, 0.5, 1.0}

	swap := Swap{TradeTerms: TradeTerms{Notional: 100, Maturity: 1}, Direction: Receiver}
	fx := FXForward{TradeTerms: TradeTerms{Notional: 10, Maturity: 1}, Direction: Long}
	call := CallOption{TradeTerms: TradeTerms{Notional: 20, Maturity: 1}, Strike: 1.0}

	exposures, err := NewPortfolio(testCounterparty(), swap, fx, call).AggregateExposure(paths, grid)
	require.NoError(t, err)

	for p := 0; p < 2; p++ {
		for j, tm := range grid {
			s := paths.At(p, j)
			want := 100*0.05*(1-tm) + 10*(s-1) + 20*maxf(s-1, 0)
			assert.InDelta(t, want, exposures.At(p, j), 1e-9, "path %d time %d", p, j)
		}
	}
}

func TestAggregateExposure_OrderIndependent(t *testing.T) {
	paths, grid, err := SimulateSpotPaths(baseSimulation())
	require.NoError(t, err)

	a := FXForward{TradeTerms: TradeTerms{Notional: 1e6, Maturity: 1}, Direction: Long}
	b := Swap{TradeTerms: TradeTerms{Notional: 1e6, Maturity: 1}, Direction: Payer}

	x, err := NewPortfolio(testCounterparty(), a, b).AggregateExposure(paths, grid)
	require.NoError(t, err)
	y, err := NewPortfolio(testCounterparty(), b, a).AggregateExposure(paths, grid)
	require.NoError(t, err)

	assert.True(t, mat.EqualApprox(x, y, 1e-6))
}

func TestAggregateExposure_WorkersMatchSequential(t *testing.T) {
	paths, grid, err := SimulateSpotPaths(baseSimulation())
	require.NoError(t, err)

	pf := NewPortfolio(testCounterparty(),
		FXForward{TradeTerms: TradeTerms{Notional: 1e6, Maturity: 1}, Direction: Short},
		CallOption{TradeTerms: TradeTerms{Notional: 5e5, Maturity: 1}, Strike: 1.05},
	)

	seq, err := pf.AggregateExposure(paths, grid)
	require.NoError(t, err)
	par, err := pf.aggregate(context.Background(), paths, grid, 8)
	require.NoError(t, err)

	assert.True(t, mat.Equal(seq, par))
}

func TestAggregateExposure_ShapeMismatch(t *testing.T) {
	paths := mat.NewDense(3, 4, nil)

	_, err := NewPortfolio(testCounterparty()).AggregateExposure(paths, TimeGrid{0, 0.5, 1})
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestAggregateExposure_Cancelled(t *testing.T) {
	paths, grid, err := SimulateSpotPaths(baseSimulation())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewPortfolio(testCounterparty(), Swap{TradeTerms: TradeTerms{Notional: 1, Maturity: 1}}).
		aggregate(ctx, paths, grid, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPortfolio_TradesIsCopy(t *testing.T) {
	pf := NewPortfolio(testCounterparty(), Swap{TradeTerms: TradeTerms{Notional: 1, Maturity: 1}})
	trades := pf.Trades()
	trades[0] = Unsupported{}

	assert.Equal(t, KindSwap, pf.Trades()[0].Kind())
	assert.Equal(t, "SocGen", pf.Counterparty().Name)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
