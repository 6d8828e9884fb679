package xva

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestExpectedExposure(t *testing.T) {
	exposures := mat.NewDense(2, 3, []float64{
		1, -2, 0,
		3, 4, -6,
	})

	epe, ene := ExpectedExposure(exposures)

	assert.Equal(t, []float64{2, 2, 0}, epe)
	assert.Equal(t, []float64{0, 1, 3}, ene)

	// 입력 불변
	assert.Equal(t, -2.0, exposures.At(0, 1))
}

func TestExpectedExposure_NonNegative(t *testing.T) {
	paths, grid, err := SimulateSpotPaths(baseSimulation())
	require.NoError(t, err)

	pf := NewPortfolio(testCounterparty(),
		FXForward{TradeTerms: TradeTerms{Notional: 1e6, Maturity: 1}, Direction: Long},
		Swap{TradeTerms: TradeTerms{Notional: 2e5, Maturity: 1}, Direction: Payer},
	)
	exposures, err := pf.AggregateExposure(paths, grid)
	require.NoError(t, err)

	profile, err := NewExposureProfile(exposures, grid)
	require.NoError(t, err)
	require.Len(t, profile.EPE, grid.Len())
	require.Len(t, profile.ENE, grid.Len())

	for i := range grid {
		assert.GreaterOrEqual(t, profile.EPE[i], 0.0)
		assert.GreaterOrEqual(t, profile.ENE[i], 0.0)
	}
}

func TestNewExposureProfile_ShapeMismatch(t *testing.T) {
	_, err := NewExposureProfile(mat.NewDense(2, 2, nil), TimeGrid{0, 0.5, 1})
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestPotentialFutureExposure(t *testing.T) {
	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(100 - i)
	}
	exposures := mat.NewDense(100, 2, nil)
	exposures.SetCol(0, data)
	for i := 0; i < 100; i++ {
		exposures.Set(i, 1, -float64(i+1))
	}

	pfe, err := PotentialFutureExposure(exposures, 0.95)
	require.NoError(t, err)

	assert.InDelta(t, 95, pfe[0], 1)
	assert.Equal(t, 0.0, pfe[1], "negative exposure floors at zero")
}

func TestPotentialFutureExposure_InvalidQuantile(t *testing.T) {
	for _, q := range []float64{0, 1, -0.5, 1.5} {
		_, err := PotentialFutureExposure(mat.NewDense(1, 1, nil), q)
		assert.True(t, errors.Is(err, ErrInvalidParameter), "q=%v", q)
	}
}

func TestPeakExposure(t *testing.T) {
	tm, v := PeakExposure(TimeGrid{0, 0.5, 1}, []float64{1, 7, 3})
	assert.Equal(t, 0.5, tm)
	assert.Equal(t, 7.0, v)
}
