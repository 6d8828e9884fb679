package xva

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deskParams 데스크 기본 시나리오: receiver swap 1,000,000, SocGen λ=0.02 R=0.4
func deskParams() Params {
	return Params{
		Spot:          1.0,
		Drift:         0.0,
		Volatility:    0.2,
		Rate:          0.03,
		Horizon:       1.0,
		Steps:         20,
		Paths:         10000,
		Seed:          2024,
		Counterparty:  Counterparty{Name: "SocGen", HazardRate: 0.02, RecoveryRate: 0.4},
		OwnHazardRate: 0.015,
		Trades:        []TradeSpec{{Kind: "swap", Notional: 1_000_000, Direction: "receiver"}},
		PFEQuantile:   0.95,
	}
}

func TestEngine_Run_DeskScenario(t *testing.T) {
	engine := NewEngine(nil)

	result, err := engine.Run(context.Background(), deskParams())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, uint64(2024), result.Seed)
	assert.Len(t, result.Times, 21)
	assert.Len(t, result.EPE, 21)
	assert.Len(t, result.ENE, 21)
	assert.Len(t, result.PFE, 21)
	assert.Len(t, result.DiscountFactors, 21)

	assert.False(t, math.IsNaN(result.CVA) || math.IsInf(result.CVA, 0))
	assert.False(t, math.IsNaN(result.DVA) || math.IsInf(result.DVA, 0))
	assert.GreaterOrEqual(t, result.CVA, 0.0)
	assert.GreaterOrEqual(t, result.DVA, 0.0)

	// receiver swap은 spot과 무관하게 항상 양수: EPE 결정적, ENE=0
	var want float64
	dt := 0.05
	for i := 1; i <= 20; i++ {
		tm := result.Times[i]
		epe := 1_000_000 * 0.05 * (1 - tm)
		assert.InDelta(t, epe, result.EPE[i], 1e-6)
		assert.Equal(t, 0.0, result.ENE[i])

		dp := math.Exp(-0.02*float64(i-1)*dt) - math.Exp(-0.02*float64(i)*dt)
		want += 0.6 * epe * dp * math.Exp(-0.03*tm)
	}
	assert.InDelta(t, want, result.CVA, 1e-6)
	assert.Equal(t, 0.0, result.DVA)

	assert.Equal(t, 0.0, result.PeakEPETime)
	assert.InDelta(t, 50_000, result.PeakEPE, 1e-6)
}

func TestEngine_Run_EmptyPortfolio(t *testing.T) {
	params := deskParams()
	params.Trades = nil
	params.Paths = 200

	result, err := NewEngine(nil).Run(context.Background(), params)
	require.NoError(t, err)

	for i := range result.Times {
		assert.Equal(t, 0.0, result.EPE[i])
		assert.Equal(t, 0.0, result.ENE[i])
	}
	assert.Equal(t, 0.0, result.CVA)
	assert.Equal(t, 0.0, result.DVA)
}

func TestEngine_Run_MixedBookIsReproducible(t *testing.T) {
	params := deskParams()
	params.Paths = 2000
	params.Trades = []TradeSpec{
		{Kind: "fx", Notional: 1_000_000, Direction: "long"},
		{Kind: "option", Notional: 500_000, Strike: Strike(1.05)},
		{Kind: "swap", Notional: 250_000, Direction: "payer"},
		{Kind: "cds", Notional: 9_999_999},
	}

	engine := NewEngine(nil)
	sequential, err := engine.Run(context.Background(), params)
	require.NoError(t, err)

	params.Workers = 4
	parallel, err := engine.Run(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, sequential.EPE, parallel.EPE)
	assert.Equal(t, sequential.ENE, parallel.ENE)
	assert.Equal(t, sequential.CVA, parallel.CVA)
	assert.Equal(t, sequential.DVA, parallel.DVA)

	// 양방향 노출이므로 둘 다 양수
	assert.Greater(t, sequential.CVA, 0.0)
	assert.Greater(t, sequential.DVA, 0.0)
}

func TestEngine_Run_InvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		param  string
	}{
		{"zero steps", func(p *Params) { p.Steps = 0 }, "n_steps"},
		{"zero paths", func(p *Params) { p.Paths = 0 }, "n_paths"},
		{"zero horizon", func(p *Params) { p.Horizon = 0 }, "horizon"},
		{"negative sigma", func(p *Params) { p.Volatility = -0.2 }, "volatility"},
		{"zero notional", func(p *Params) { p.Trades[0].Notional = 0 }, "notional"},
		{"bad recovery", func(p *Params) { p.Counterparty.RecoveryRate = 2 }, "recovery_rate"},
		{"negative own hazard", func(p *Params) { p.OwnHazardRate = -1 }, "own_hazard_rate"},
		{"pfe quantile one", func(p *Params) { p.PFEQuantile = 1 }, "pfe_quantile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := deskParams()
			params.Trades = append([]TradeSpec(nil), params.Trades...)
			tt.mutate(&params)

			result, err := NewEngine(nil).Run(context.Background(), params)
			assert.Nil(t, result)
			require.True(t, errors.Is(err, ErrInvalidParameter))

			var perr *ParameterError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.param, perr.Name)
		})
	}
}

func TestEngine_Run_InfiniteMaturityRejected(t *testing.T) {
	params := deskParams()
	params.Paths = 10
	params.Trades = []TradeSpec{{Kind: "swap", Notional: 1e6, Maturity: math.Inf(1), Direction: "receiver"}}

	result, err := NewEngine(nil).Run(context.Background(), params)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestEngine_ShockTest_CVAIncreasesWithHazard(t *testing.T) {
	params := deskParams()
	params.Paths = 1000
	engine := NewEngine(nil)

	previous := -1.0
	for _, factor := range []float64{1.5, 2, 3, 5} {
		shock, err := engine.ShockTest(context.Background(), params, factor)
		require.NoError(t, err)

		assert.Equal(t, 0.02, shock.BaseHazardRate)
		assert.Equal(t, 0.02*factor, shock.ShockedHazardRate)
		assert.Greater(t, shock.ShockedCVA, shock.BaseCVA)
		assert.Greater(t, shock.DeltaCVA, 0.0)
		assert.Greater(t, shock.ShockedCVA, previous)
		previous = shock.ShockedCVA
	}

	// 호출자의 Counterparty는 그대로
	assert.Equal(t, 0.02, params.Counterparty.HazardRate)
}

func TestEngine_ShockedRunMatchesShockTest(t *testing.T) {
	params := deskParams()
	params.Paths = 500
	params.Trades = []TradeSpec{{Kind: "fx", Notional: 1e6, Direction: "long"}}
	engine := NewEngine(nil)

	shock, err := engine.ShockTest(context.Background(), params, 2)
	require.NoError(t, err)

	// 같은 시드로 hazard만 바꿔 다시 실행해도 같은 경로 → 같은 CVA
	params.Counterparty = params.Counterparty.WithHazardRate(0.04)
	rerun, err := engine.Run(context.Background(), params)
	require.NoError(t, err)

	assert.InDelta(t, shock.ShockedCVA, rerun.CVA, 1e-9)
}

func TestEngine_ShockTest_InvalidFactor(t *testing.T) {
	_, err := NewEngine(nil).ShockTest(context.Background(), deskParams(), 0)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}
