package xva

import "math"

// =============================================================================
// Counterparty (지수 hazard 모델)
// =============================================================================

// Counterparty 거래상대방
// HazardRate 만 시나리오 충격으로 변경될 수 있음 (동시 접근 시 호출자가 직렬화)
type Counterparty struct {
	Name         string  `json:"name"`
	HazardRate   float64 `json:"hazard_rate"`   // 연율 부도강도 λ (>= 0)
	RecoveryRate float64 `json:"recovery_rate"` // 회수율 [0, 1]
}

// NewCounterparty 검증 후 거래상대방 생성
func NewCounterparty(name string, hazardRate, recoveryRate float64) (*Counterparty, error) {
	cp := &Counterparty{Name: name, HazardRate: hazardRate, RecoveryRate: recoveryRate}
	if err := cp.Validate(); err != nil {
		return nil, err
	}
	return cp, nil
}

// Validate hazard/recovery 범위 검사
func (c Counterparty) Validate() error {
	if err := validateHazard("hazard_rate", c.HazardRate); err != nil {
		return err
	}
	return validateRecovery(c.RecoveryRate)
}

// SurvivalProbability 시점 t까지 생존확률
func (c Counterparty) SurvivalProbability(t float64) float64 {
	return SurvivalProbability(c.HazardRate, t)
}

// DefaultProbability 시점 t까지 누적 부도확률
func (c Counterparty) DefaultProbability(t float64) float64 {
	return DefaultProbability(c.HazardRate, t)
}

// PDCurve 각 시점까지의 누적 부도확률
func (c Counterparty) PDCurve(times []float64) []float64 {
	curve := make([]float64, len(times))
	for i, t := range times {
		curve[i] = c.DefaultProbability(t)
	}
	return curve
}

// WithHazardRate hazard만 바꾼 사본 (원본 불변, 동시 시나리오용)
func (c Counterparty) WithHazardRate(hazardRate float64) Counterparty {
	c.HazardRate = hazardRate
	return c
}

func validateHazard(name string, hazard float64) error {
	if !(hazard >= 0) || math.IsInf(hazard, 0) {
		return invalidParam(name, hazard, "must be >= 0")
	}
	return nil
}

func validateRecovery(recovery float64) error {
	if !(recovery >= 0 && recovery <= 1) {
		return invalidParam("recovery_rate", recovery, "must be in [0, 1]")
	}
	return nil
}

// =============================================================================
// Flat Curves
// =============================================================================

// SurvivalProbability exp(-λ·t)
func SurvivalProbability(hazard, t float64) float64 {
	return math.Exp(-hazard * t)
}

// DefaultProbability 1 - exp(-λ·t)
func DefaultProbability(hazard, t float64) float64 {
	return 1 - SurvivalProbability(hazard, t)
}

// SurvivalCurve 시점별 생존확률
func SurvivalCurve(hazard float64, times []float64) []float64 {
	curve := make([]float64, len(times))
	for i, t := range times {
		curve[i] = SurvivalProbability(hazard, t)
	}
	return curve
}

// DiscountCurve flat 금리 r의 할인계수 exp(-r·t), 격자와 정렬
func DiscountCurve(rate float64, grid TimeGrid) []float64 {
	factors := make([]float64, len(grid))
	for i, t := range grid {
		factors[i] = math.Exp(-rate * t)
	}
	return factors
}
