package xva

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JackRW23/xva-desk-simulator/pkg/logger"
)

// =============================================================================
// Engine - 순수 계산기
// =============================================================================

// Engine XVA 파이프라인 실행기
// ⭐ SSOT: 입력 수집/리포트/저장은 상위 레이어 (cmd, api, scheduler)
// Simulator → Aggregator → Reducer → Integrator 순서로만 흐름
type Engine struct {
	logger *logger.Logger
}

// NewEngine 새 엔진 생성 (log가 nil이면 로그 없음)
func NewEngine(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{logger: log.Component("xva")}
}

// Run 경로 생성부터 CVA/DVA까지 한 번 실행
// 검증 실패 시 어떤 계산도 하지 않고 부분 결과 없이 반환
func (e *Engine) Run(ctx context.Context, params Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	trades, err := NewDerivatives(params.Trades, params.Horizon)
	if err != nil {
		return nil, err
	}

	for _, trade := range trades {
		if Terms(trade).Maturity < params.Horizon {
			e.logger.WithFields(map[string]interface{}{
				"kind":     trade.Kind(),
				"maturity": Terms(trade).Maturity,
				"horizon":  params.Horizon,
			}).Warn("Trade matures before simulation horizon")
		}
	}

	// 1. Paths
	sim, err := NewPathSimulator(params.Simulation())
	if err != nil {
		return nil, err
	}
	paths, grid := sim.Simulate()

	runID := uuid.New().String()
	log := e.logger.WithField("run_id", runID)
	log.WithFields(map[string]interface{}{
		"paths": params.Paths,
		"steps": params.Steps,
		"seed":  sim.Seed(),
	}).Debug("Spot paths simulated")

	// 2. Exposure
	counterparty := params.Counterparty
	portfolio := NewPortfolio(&counterparty, trades...)

	exposures, err := portfolio.aggregate(ctx, paths, grid, params.Workers)
	if err != nil {
		return nil, fmt.Errorf("aggregate exposure: %w", err)
	}
	log.WithField("trades", len(trades)).Debug("Portfolio exposure aggregated")

	// 3. Profiles
	epe, ene := ExpectedExposure(exposures)
	discountFactors := DiscountCurve(params.Rate, grid)

	// 4. Adjustments
	dt := grid.Step()
	cva, err := CVA(epe, counterparty.HazardRate, counterparty.RecoveryRate, discountFactors, dt)
	if err != nil {
		return nil, fmt.Errorf("integrate cva: %w", err)
	}
	dva, err := DVA(ene, params.OwnHazardRate, counterparty.RecoveryRate, discountFactors, dt)
	if err != nil {
		return nil, fmt.Errorf("integrate dva: %w", err)
	}

	result := &Result{
		RunID:           runID,
		RunDate:         time.Now(),
		Seed:            sim.Seed(),
		Params:          params,
		Times:           grid,
		EPE:             epe,
		ENE:             ene,
		DiscountFactors: discountFactors,
		CVA:             cva,
		DVA:             dva,
	}
	result.PeakEPETime, result.PeakEPE = PeakExposure(grid, epe)

	if params.PFEQuantile > 0 {
		pfe, err := PotentialFutureExposure(exposures, params.PFEQuantile)
		if err != nil {
			return nil, err
		}
		result.PFE = pfe
	}

	log.WithFields(map[string]interface{}{
		"counterparty": counterparty.Name,
		"trades":       len(trades),
		"cva":          cva,
		"dva":          dva,
	}).Info("XVA run completed")

	return result, nil
}

// ShockTest 거래상대방 hazard를 factor배 했을 때의 CVA 비교
// 같은 익스포저 프로파일(같은 경로)에 재적분하므로 충격 효과만 분리됨
// params.Counterparty는 값 복사본이라 호출자 상태는 변하지 않음
func (e *Engine) ShockTest(ctx context.Context, params Params, factor float64) (*ShockResult, error) {
	if !(factor > 0) {
		return nil, invalidParam("factor", factor, "must be > 0")
	}

	base, err := e.Run(ctx, params)
	if err != nil {
		return nil, err
	}

	cp := params.Counterparty
	old := ShockHazardRate(&cp, factor)
	shocked := cp.HazardRate

	shockedCVA, err := CVA(base.EPE, cp.HazardRate, cp.RecoveryRate, base.DiscountFactors, base.Times.Step())
	ResetHazardRate(&cp, old)
	if err != nil {
		return nil, fmt.Errorf("integrate shocked cva: %w", err)
	}

	e.logger.WithFields(map[string]interface{}{
		"run_id":      base.RunID,
		"factor":      factor,
		"base_cva":    base.CVA,
		"shocked_cva": shockedCVA,
	}).Info("Hazard shock evaluated")

	return &ShockResult{
		Factor:            factor,
		BaseHazardRate:    old,
		ShockedHazardRate: shocked,
		BaseCVA:           base.CVA,
		ShockedCVA:        shockedCVA,
		DeltaCVA:          shockedCVA - base.CVA,
		Base:              base,
	}, nil
}
