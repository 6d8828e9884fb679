package xva

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SimulationConfig GBM 경로 시뮬레이션 설정
type SimulationConfig struct {
	Spot       float64 // S0 (> 0)
	Drift      float64 // μ
	Volatility float64 // σ (>= 0)
	Horizon    float64 // T (> 0)
	Steps      int     // n_steps (>= 1)
	Paths      int     // n_paths (>= 1)
	Seed       uint64  // 재현성용 시드 (0=시간 기반)
}

// Validate 시뮬레이션 전에 모든 파라미터 검사
func (c SimulationConfig) Validate() error {
	if c.Steps < 1 {
		return invalidParam("n_steps", c.Steps, "must be >= 1")
	}
	if c.Paths < 1 {
		return invalidParam("n_paths", c.Paths, "must be >= 1")
	}
	if !(c.Horizon > 0) || math.IsInf(c.Horizon, 0) {
		return invalidParam("horizon", c.Horizon, "must be > 0")
	}
	if !(c.Spot > 0) || math.IsInf(c.Spot, 0) {
		return invalidParam("spot", c.Spot, "must be > 0")
	}
	if !(c.Volatility >= 0) || math.IsInf(c.Volatility, 0) {
		return invalidParam("volatility", c.Volatility, "must be >= 0")
	}
	if math.IsNaN(c.Drift) || math.IsInf(c.Drift, 0) {
		return invalidParam("drift", c.Drift, "must be finite")
	}
	return nil
}

// PathSimulator 단일 위험요인 GBM Monte Carlo 시뮬레이터
// 시드가 같으면 경로가 비트 단위로 동일
type PathSimulator struct {
	config SimulationConfig
	seed   uint64
	normal distuv.Normal
}

// NewPathSimulator 새 시뮬레이터 생성
func NewPathSimulator(config SimulationConfig) (*PathSimulator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &PathSimulator{
		config: config,
		seed:   seed,
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)},
	}, nil
}

// Seed 실제 사용된 시드 (결과 기록용)
func (s *PathSimulator) Seed() uint64 {
	return s.seed
}

// Simulate (n_paths, n_steps+1) 경로 행렬과 시간 격자 생성
// S_t = S_{t-1} * exp((μ - σ²/2)·dt + σ·√dt·Z), 시점별로 n_paths개의 Z를 뽑음
func (s *PathSimulator) Simulate() (*mat.Dense, TimeGrid) {
	cfg := s.config

	grid, _ := NewTimeGrid(cfg.Horizon, cfg.Steps)
	dt := grid.Step()

	drift := (cfg.Drift - 0.5*cfg.Volatility*cfg.Volatility) * dt
	diffusion := cfg.Volatility * math.Sqrt(dt)

	paths := mat.NewDense(cfg.Paths, cfg.Steps+1, nil)
	for p := 0; p < cfg.Paths; p++ {
		paths.Set(p, 0, cfg.Spot)
	}

	for t := 1; t <= cfg.Steps; t++ {
		for p := 0; p < cfg.Paths; p++ {
			z := s.normal.Rand()
			paths.Set(p, t, paths.At(p, t-1)*math.Exp(drift+diffusion*z))
		}
	}

	return paths, grid
}

// SimulateSpotPaths 설정 검증 후 한 번에 경로 생성
func SimulateSpotPaths(config SimulationConfig) (*mat.Dense, TimeGrid, error) {
	sim, err := NewPathSimulator(config)
	if err != nil {
		return nil, nil, err
	}
	paths, grid := sim.Simulate()
	return paths, grid, nil
}
