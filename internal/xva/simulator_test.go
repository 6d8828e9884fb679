package xva

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func baseSimulation() SimulationConfig {
	return SimulationConfig{
		Spot:       1.0,
		Drift:      0.0,
		Volatility: 0.2,
		Horizon:    1.0,
		Steps:      20,
		Paths:      500,
		Seed:       42,
	}
}

func TestSimulate_Shape(t *testing.T) {
	paths, grid, err := SimulateSpotPaths(baseSimulation())
	require.NoError(t, err)

	rows, cols := paths.Dims()
	assert.Equal(t, 500, rows)
	assert.Equal(t, 21, cols)
	assert.Equal(t, cols, grid.Len())

	for p := 0; p < rows; p++ {
		assert.Equal(t, 1.0, paths.At(p, 0))
		for j := 0; j < cols; j++ {
			assert.Greater(t, paths.At(p, j), 0.0)
		}
	}
}

func TestSimulate_ZeroVarianceIsFlat(t *testing.T) {
	cfg := SimulationConfig{Spot: 1.37, Drift: 0, Volatility: 0, Horizon: 2.0, Steps: 8, Paths: 1, Seed: 1}

	paths, _, err := SimulateSpotPaths(cfg)
	require.NoError(t, err)

	_, cols := paths.Dims()
	for j := 0; j < cols; j++ {
		assert.Equal(t, 1.37, paths.At(0, j), "time index %d", j)
	}
}

func TestSimulate_SameSeedReproduces(t *testing.T) {
	a, _, err := SimulateSpotPaths(baseSimulation())
	require.NoError(t, err)
	b, _, err := SimulateSpotPaths(baseSimulation())
	require.NoError(t, err)

	assert.True(t, mat.Equal(a, b))

	other := baseSimulation()
	other.Seed = 43
	c, _, err := SimulateSpotPaths(other)
	require.NoError(t, err)
	assert.False(t, mat.Equal(a, c))
}

func TestSimulate_TerminalMeanMatchesDrift(t *testing.T) {
	cfg := baseSimulation()
	cfg.Drift = 0.05
	cfg.Paths = 20000
	cfg.Seed = 7

	paths, _, err := SimulateSpotPaths(cfg)
	require.NoError(t, err)

	terminal := mat.Col(nil, cfg.Steps, paths)
	// E[S_T] = S0·exp(μT)
	assert.InDelta(t, math.Exp(0.05), stat.Mean(terminal, nil), 0.01)
}

func TestPathSimulator_RecordsSeed(t *testing.T) {
	cfg := baseSimulation()
	cfg.Seed = 0

	sim, err := NewPathSimulator(cfg)
	require.NoError(t, err)
	assert.NotZero(t, sim.Seed())

	cfg.Seed = 99
	sim, err = NewPathSimulator(cfg)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), sim.Seed())
}

func TestSimulationConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SimulationConfig)
		param  string
	}{
		{"zero steps", func(c *SimulationConfig) { c.Steps = 0 }, "n_steps"},
		{"zero paths", func(c *SimulationConfig) { c.Paths = 0 }, "n_paths"},
		{"zero horizon", func(c *SimulationConfig) { c.Horizon = 0 }, "horizon"},
		{"negative spot", func(c *SimulationConfig) { c.Spot = -1 }, "spot"},
		{"negative volatility", func(c *SimulationConfig) { c.Volatility = -0.1 }, "volatility"},
		{"nan drift", func(c *SimulationConfig) { c.Drift = math.NaN() }, "drift"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseSimulation()
			tt.mutate(&cfg)

			paths, grid, err := SimulateSpotPaths(cfg)
			require.Error(t, err)
			assert.Nil(t, paths)
			assert.Nil(t, grid)

			var perr *ParameterError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.param, perr.Name)
			assert.Contains(t, err.Error(), tt.param)
		})
	}
}
