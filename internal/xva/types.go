package xva

import (
	"math"
	"time"

	"github.com/JackRW23/xva-desk-simulator/pkg/config"
)

// =============================================================================
// Run Input
// =============================================================================

// Params 한 번의 XVA 실행 입력
// ⭐ SSOT: 재현성을 위해 결과에 그대로 기록
type Params struct {
	// Market
	Spot       float64 `json:"spot"`
	Drift      float64 `json:"drift"`
	Volatility float64 `json:"volatility"`
	Rate       float64 `json:"rate"` // flat 할인 금리

	// Simulation
	Horizon float64 `json:"horizon"`
	Steps   int     `json:"steps"`
	Paths   int     `json:"paths"`
	Seed    uint64  `json:"seed,omitempty"`    // 0=시간 기반
	Workers int     `json:"workers,omitempty"` // 0이면 1

	// Credit
	Counterparty  Counterparty `json:"counterparty"`
	OwnHazardRate float64      `json:"own_hazard_rate"`

	Trades []TradeSpec `json:"trades"`

	PFEQuantile float64 `json:"pfe_quantile,omitempty"` // 0이면 PFE 생략
}

// ParamsFromConfig 환경 설정 기본값으로 채운 입력 템플릿 (거래/거래상대방 제외)
func ParamsFromConfig(cfg config.XVAConfig) Params {
	return Params{
		Spot:          cfg.Spot,
		Drift:         cfg.Drift,
		Volatility:    cfg.Volatility,
		Rate:          cfg.Rate,
		Horizon:       cfg.Horizon,
		Steps:         cfg.Steps,
		Paths:         cfg.Paths,
		Seed:          cfg.Seed,
		Workers:       cfg.Workers,
		OwnHazardRate: cfg.OwnHazardRate,
		PFEQuantile:   cfg.PFEQuantile,
	}
}

// Simulation 경로 시뮬레이터 설정 추출
func (p Params) Simulation() SimulationConfig {
	return SimulationConfig{
		Spot:       p.Spot,
		Drift:      p.Drift,
		Volatility: p.Volatility,
		Horizon:    p.Horizon,
		Steps:      p.Steps,
		Paths:      p.Paths,
		Seed:       p.Seed,
	}
}

// Validate 시뮬레이션 시작 전 전체 입력 검사 (fail-closed)
func (p Params) Validate() error {
	if err := p.Simulation().Validate(); err != nil {
		return err
	}
	if math.IsNaN(p.Rate) || math.IsInf(p.Rate, 0) {
		return invalidParam("rate", p.Rate, "must be finite")
	}
	if err := p.Counterparty.Validate(); err != nil {
		return err
	}
	if err := validateHazard("own_hazard_rate", p.OwnHazardRate); err != nil {
		return err
	}
	if p.Workers < 0 {
		return invalidParam("workers", p.Workers, "must be >= 0")
	}
	if !(p.PFEQuantile >= 0 && p.PFEQuantile < 1) {
		return invalidParam("pfe_quantile", p.PFEQuantile, "must be in [0, 1)")
	}
	_, err := NewDerivatives(p.Trades, p.Horizon)
	return err
}

// =============================================================================
// Run Output
// =============================================================================

// Result XVA 실행 결과
// 모든 벡터는 Times와 같은 길이 (n_steps+1)
type Result struct {
	RunID   string    `json:"run_id"`
	RunDate time.Time `json:"run_date"`
	Seed    uint64    `json:"seed"` // 실제 사용된 시드
	Params  Params    `json:"params"`

	Times           TimeGrid  `json:"times"`
	EPE             []float64 `json:"epe"`
	ENE             []float64 `json:"ene"`
	PFE             []float64 `json:"pfe,omitempty"`
	DiscountFactors []float64 `json:"discount_factors"`

	PeakEPE     float64 `json:"peak_epe"`
	PeakEPETime float64 `json:"peak_epe_time"`

	CVA float64 `json:"cva"`
	DVA float64 `json:"dva"`
}

// Profile 기대 익스포저 프로파일
func (r *Result) Profile() ExposureProfile {
	return ExposureProfile{Times: r.Times, EPE: r.EPE, ENE: r.ENE}
}

// ShockResult hazard 충격 전후 CVA 비교
type ShockResult struct {
	Factor            float64 `json:"factor"`
	BaseHazardRate    float64 `json:"base_hazard_rate"`
	ShockedHazardRate float64 `json:"shocked_hazard_rate"`
	BaseCVA           float64 `json:"base_cva"`
	ShockedCVA        float64 `json:"shocked_cva"`
	DeltaCVA          float64 `json:"delta_cva"`
	Base              *Result `json:"base"`
}
