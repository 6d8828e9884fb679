package xva

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountCurve(t *testing.T) {
	factors := DiscountCurve(0.05, TimeGrid{0, 1, 2})
	for i, tm := range []float64{0, 1, 2} {
		assert.InDelta(t, math.Exp(-0.05*tm), factors[i], 1e-15)
	}
}

func TestDiscountCurve_StartsAtOneAndNonIncreasing(t *testing.T) {
	grid, err := NewTimeGrid(5, 50)
	require.NoError(t, err)

	for _, r := range []float64{0, 0.01, 0.03, 0.2} {
		factors := DiscountCurve(r, grid)
		require.Len(t, factors, grid.Len())
		assert.Equal(t, 1.0, factors[0])
		for i := 1; i < len(factors); i++ {
			assert.LessOrEqual(t, factors[i], factors[i-1], "r=%v i=%d", r, i)
		}
	}
}

func TestSurvivalProbability(t *testing.T) {
	for _, hazard := range []float64{0, 0.015, 0.02, 0.5} {
		assert.Equal(t, 1.0, SurvivalProbability(hazard, 0))
	}

	times := []float64{0, 0.5, 1, 5, 10}
	curve := SurvivalCurve(0.02, times)
	for i := 1; i < len(curve); i++ {
		assert.Less(t, curve[i], curve[i-1])
	}

	assert.Less(t, SurvivalProbability(0.02, 5000), 1e-40)
	assert.InDelta(t, 1-math.Exp(-0.02*3), DefaultProbability(0.02, 3), 1e-15)
}

func TestCounterparty(t *testing.T) {
	cp, err := NewCounterparty("SocGen", 0.02, 0.4)
	require.NoError(t, err)

	assert.Equal(t, SurvivalProbability(0.02, 2), cp.SurvivalProbability(2))

	times := []float64{0, 1, 2}
	pd := cp.PDCurve(times)
	for i, tm := range times {
		assert.InDelta(t, 1-cp.SurvivalProbability(tm), pd[i], 1e-15)
	}
	assert.Equal(t, 0.0, pd[0])

	shocked := cp.WithHazardRate(0.04)
	assert.Equal(t, 0.04, shocked.HazardRate)
	assert.Equal(t, 0.02, cp.HazardRate)
}

func TestNewCounterparty_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		hazard   float64
		recovery float64
		param    string
	}{
		{"negative hazard", -0.01, 0.4, "hazard_rate"},
		{"nan hazard", math.NaN(), 0.4, "hazard_rate"},
		{"recovery above one", 0.02, 1.1, "recovery_rate"},
		{"negative recovery", 0.02, -0.1, "recovery_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCounterparty("X", tt.hazard, tt.recovery)
			var perr *ParameterError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.param, perr.Name)
		})
	}
}
