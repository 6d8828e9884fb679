package xva

// TimeGrid 0..T 균등 시간 격자 (길이 n_steps+1)
// 생성 후 읽기 전용으로 공유
type TimeGrid []float64

// NewTimeGrid horizon을 steps 구간으로 나눈 격자 생성
// 마지막 원소는 정확히 horizon
func NewTimeGrid(horizon float64, steps int) (TimeGrid, error) {
	if steps < 1 {
		return nil, invalidParam("n_steps", steps, "must be >= 1")
	}
	if !(horizon > 0) {
		return nil, invalidParam("horizon", horizon, "must be > 0")
	}

	dt := horizon / float64(steps)
	grid := make(TimeGrid, steps+1)
	for i := 0; i < steps; i++ {
		grid[i] = float64(i) * dt
	}
	grid[steps] = horizon

	return grid, nil
}

// Len 시간 인덱스 개수 (n_steps+1)
func (g TimeGrid) Len() int {
	return len(g)
}

// Steps 구간 개수
func (g TimeGrid) Steps() int {
	if len(g) == 0 {
		return 0
	}
	return len(g) - 1
}

// Horizon 마지막 시점 T
func (g TimeGrid) Horizon() float64 {
	if len(g) == 0 {
		return 0
	}
	return g[len(g)-1]
}

// Step 구간 폭 dt = T / n_steps
func (g TimeGrid) Step() float64 {
	if g.Steps() == 0 {
		return 0
	}
	return g.Horizon() / float64(g.Steps())
}
