package book

import (
	"errors"

	"github.com/JackRW23/xva-desk-simulator/internal/xva"
)

// ErrNotFound 해당 이름의 netting set(거래상대방)이 없음
var ErrNotFound = errors.New("netting set not found")

// NettingSet 한 거래상대방과 그 거래들의 묶음
// ⭐ SSOT: 입력만 저장 (결과는 매 실행마다 재계산)
type NettingSet struct {
	Counterparty xva.Counterparty `json:"counterparty"`
	Trades       []xva.TradeSpec  `json:"trades"`
}

// Summary 목록 조회용 요약
type Summary struct {
	Name         string  `json:"name"`
	HazardRate   float64 `json:"hazard_rate"`
	RecoveryRate float64 `json:"recovery_rate"`
	TradeCount   int     `json:"trade_count"`
}

// Validate 저장 전 입력 검사 (엔진과 같은 규칙)
func (n *NettingSet) Validate(horizon float64) error {
	if n.Counterparty.Name == "" {
		return &xva.ParameterError{Name: "name", Value: "", Reason: "must not be empty"}
	}
	if err := n.Counterparty.Validate(); err != nil {
		return err
	}
	_, err := xva.NewDerivatives(n.Trades, horizon)
	return err
}

// Params 기본 시장/시뮬레이션 템플릿에 이 netting set을 채운 실행 입력
func (n *NettingSet) Params(template xva.Params) xva.Params {
	params := template
	params.Counterparty = n.Counterparty
	params.Trades = append([]xva.TradeSpec(nil), n.Trades...)
	return params
}
