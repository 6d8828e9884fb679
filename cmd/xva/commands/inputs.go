package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/JackRW23/xva-desk-simulator/internal/xva"
	"github.com/JackRW23/xva-desk-simulator/pkg/config"
)

// defaultTrades 데스크 기본 포트폴리오: receiver swap 1,000,000
var defaultTrades = []string{"swap:1000000:receiver"}

// runInputs 입력 collaborator: 실행에 필요한 모든 값을 flag로 받음
// 지정하지 않은 시장/시뮬레이션 값은 XVA_* 설정을 따름
type runInputs struct {
	spot       float64
	drift      float64
	volatility float64
	horizon    float64
	steps      int
	paths      int
	rate       float64
	seed       uint64
	workers    int
	pfe        float64

	counterparty string
	hazard       float64
	recovery     float64
	ownHazard    float64

	trades []string
}

func (in *runInputs) register(fs *pflag.FlagSet) {
	fs.Float64Var(&in.spot, "spot", 1.0, "initial spot S0 (XVA_SPOT)")
	fs.Float64Var(&in.drift, "drift", 0.0, "drift μ (XVA_DRIFT)")
	fs.Float64Var(&in.volatility, "sigma", 0.2, "volatility σ (XVA_VOLATILITY)")
	fs.Float64Var(&in.horizon, "horizon", 1.0, "horizon T in years (XVA_HORIZON)")
	fs.IntVar(&in.steps, "steps", 20, "time steps (XVA_STEPS)")
	fs.IntVar(&in.paths, "paths", 10000, "Monte Carlo paths (XVA_PATHS)")
	fs.Float64Var(&in.rate, "rate", 0.03, "flat discount rate r (XVA_RATE)")
	fs.Uint64Var(&in.seed, "seed", 0, "random seed, 0=time seeded (XVA_SEED)")
	fs.IntVar(&in.workers, "workers", 1, "aggregation workers (XVA_WORKERS)")
	fs.Float64Var(&in.pfe, "pfe", 0.95, "PFE quantile, 0 disables (XVA_PFE_QUANTILE)")

	fs.StringVar(&in.counterparty, "counterparty", "SocGen", "counterparty name")
	fs.Float64Var(&in.hazard, "hazard", 0.02, "counterparty hazard rate λ")
	fs.Float64Var(&in.recovery, "recovery", 0.4, "counterparty recovery rate R")
	fs.Float64Var(&in.ownHazard, "own-hazard", 0.015, "own hazard rate for DVA (XVA_OWN_HAZARD)")

	fs.StringArrayVar(&in.trades, "trade", defaultTrades, "trade kind:notional[:direction[:strike]] (repeatable)")
}

// params 설정 템플릿 위에 명시적으로 바뀐 flag만 덮어씀
func (in *runInputs) params(fs *pflag.FlagSet, cfg config.XVAConfig) (xva.Params, error) {
	params := xva.ParamsFromConfig(cfg)

	overrides := map[string]func(){
		"spot":       func() { params.Spot = in.spot },
		"drift":      func() { params.Drift = in.drift },
		"sigma":      func() { params.Volatility = in.volatility },
		"horizon":    func() { params.Horizon = in.horizon },
		"steps":      func() { params.Steps = in.steps },
		"paths":      func() { params.Paths = in.paths },
		"rate":       func() { params.Rate = in.rate },
		"seed":       func() { params.Seed = in.seed },
		"workers":    func() { params.Workers = in.workers },
		"pfe":        func() { params.PFEQuantile = in.pfe },
		"own-hazard": func() { params.OwnHazardRate = in.ownHazard },
	}
	for name, apply := range overrides {
		if fs.Changed(name) {
			apply()
		}
	}

	params.Counterparty = xva.Counterparty{
		Name:         in.counterparty,
		HazardRate:   in.hazard,
		RecoveryRate: in.recovery,
	}

	trades, err := parseTrades(in.trades)
	if err != nil {
		return xva.Params{}, err
	}
	params.Trades = trades

	return params, nil
}

// parseTrades parses repeated --trade values
func parseTrades(values []string) ([]xva.TradeSpec, error) {
	trades := make([]xva.TradeSpec, 0, len(values))
	for _, v := range values {
		trade, err := parseTrade(v)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

// parseTrade parses kind:notional[:direction[:strike]]
// 예: swap:1000000:receiver, fx:500000:short, option:250000::1.05
func parseTrade(value string) (xva.TradeSpec, error) {
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 4 {
		return xva.TradeSpec{}, fmt.Errorf("invalid trade %q: want kind:notional[:direction[:strike]]", value)
	}

	notional, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return xva.TradeSpec{}, fmt.Errorf("invalid trade %q: notional: %w", value, err)
	}

	trade := xva.TradeSpec{
		Kind:     strings.ToLower(strings.TrimSpace(parts[0])),
		Notional: notional,
	}

	if len(parts) > 2 {
		trade.Direction = strings.ToLower(strings.TrimSpace(parts[2]))
	}

	if len(parts) > 3 && parts[3] != "" {
		strike, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return xva.TradeSpec{}, fmt.Errorf("invalid trade %q: strike: %w", value, err)
		}
		trade.Strike = xva.Strike(strike)
	}

	return trade, nil
}
