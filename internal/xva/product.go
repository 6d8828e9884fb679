package xva

import (
	"math"
	"strings"
)

// =============================================================================
// Product Kinds & Directions
// =============================================================================

// ProductKind 상품 종류
type ProductKind string

const (
	KindSwap    ProductKind = "swap"
	KindFX      ProductKind = "fx"
	KindOption  ProductKind = "option"
	KindUnknown ProductKind = "unknown"
)

// SwapDirection 스왑 고정금리 방향
type SwapDirection string

const (
	Payer    SwapDirection = "payer"
	Receiver SwapDirection = "receiver"
)

func (d SwapDirection) sign() float64 {
	if d == Receiver {
		return 1
	}
	return -1
}

// Position FX 포지션 방향
type Position string

const (
	Long  Position = "long"
	Short Position = "short"
)

func (p Position) sign() float64 {
	if p == Long {
		return 1
	}
	return -1
}

const (
	swapFixedRate   = 0.05 // 단순화된 고정 레그 금리
	fxReferenceRate = 1.0  // FX 기준 환율
	defaultStrike   = 1.0
)

// =============================================================================
// Derivative (closed variant)
// =============================================================================

// TradeTerms 모든 상품 공통 조건
type TradeTerms struct {
	Notional float64 `json:"notional"`
	Maturity float64 `json:"maturity"`
}

func (t TradeTerms) terms() TradeTerms { return t }

// Derivative 거래 한 건
// 구현체는 이 패키지의 Swap, FXForward, CallOption, Unsupported 뿐
type Derivative interface {
	Kind() ProductKind
	terms() TradeTerms
}

// Swap 고정 레그 PV가 만기까지 선형 감소하는 단순 스왑 (spot 무관)
type Swap struct {
	TradeTerms
	Direction SwapDirection `json:"direction"`
}

// FXForward 기준 환율 1.0 대비 선형 손익
type FXForward struct {
	TradeTerms
	Direction Position `json:"direction"`
}

// CallOption 콜 내재가치 (방향 무관)
type CallOption struct {
	TradeTerms
	Strike float64 `json:"strike"`
}

// Unsupported 지원하지 않는 상품, 익스포저는 항상 0
type Unsupported struct {
	TradeTerms
	Label string `json:"label"`
}

func (Swap) Kind() ProductKind        { return KindSwap }
func (FXForward) Kind() ProductKind   { return KindFX }
func (CallOption) Kind() ProductKind  { return KindOption }
func (Unsupported) Kind() ProductKind { return KindUnknown }

// Terms 거래 공통 조건 조회
func Terms(d Derivative) TradeTerms {
	return d.terms()
}

// MarkToMarket 시점 t의 spot 벡터에 대한 경로별 부호 있는 평가값
// 입력을 변경하지 않고 항상 len(spot) 길이의 새 슬라이스 반환
// 만기 이후 t에 대한 보정은 하지 않음 (스왑은 음수 감가 가능)
func MarkToMarket(d Derivative, spot []float64, t float64) []float64 {
	out := make([]float64, len(spot))

	switch p := d.(type) {
	case Swap:
		v := p.Notional * (swapFixedRate * (p.Maturity - t)) * p.Direction.sign()
		for i := range out {
			out[i] = v
		}
	case FXForward:
		sign := p.Direction.sign()
		for i, s := range spot {
			out[i] = p.Notional * (s - fxReferenceRate) * sign
		}
	case CallOption:
		for i, s := range spot {
			out[i] = math.Max(s-p.Strike, 0) * p.Notional
		}
	case *Swap:
		return MarkToMarket(*p, spot, t)
	case *FXForward:
		return MarkToMarket(*p, spot, t)
	case *CallOption:
		return MarkToMarket(*p, spot, t)
	default:
		// Unsupported 포함: 0 익스포저 (기존 호출자 호환)
	}

	return out
}

// =============================================================================
// Trade Spec (입력 튜플)
// =============================================================================

// TradeSpec 입력 측(CLI/API/DB)이 넘기는 (kind, notional, direction, strike) 튜플
type TradeSpec struct {
	Kind      string   `json:"kind"`
	Notional  float64  `json:"notional"`
	Maturity  float64  `json:"maturity,omitempty"` // 0이면 horizon
	Direction string   `json:"direction,omitempty"`
	Strike    *float64 `json:"strike,omitempty"` // nil이면 1.0, 명시적 0은 그대로
}

// Strike 옵션 행사가 입력값 (TradeSpec.Strike용)
func Strike(k float64) *float64 {
	return &k
}

// NewDerivative 입력 튜플을 상품 variant로 변환
// 알 수 없는 kind는 에러가 아니라 Unsupported
func NewDerivative(spec TradeSpec, horizon float64) (Derivative, error) {
	if !(spec.Notional > 0) || math.IsInf(spec.Notional, 0) {
		return nil, invalidParam("notional", spec.Notional, "must be > 0")
	}
	if !(spec.Maturity >= 0) || math.IsInf(spec.Maturity, 0) {
		return nil, invalidParam("maturity", spec.Maturity, "must be finite and >= 0")
	}
	if spec.Strike != nil && (math.IsNaN(*spec.Strike) || math.IsInf(*spec.Strike, 0)) {
		return nil, invalidParam("strike", *spec.Strike, "must be finite")
	}

	terms := TradeTerms{Notional: spec.Notional, Maturity: spec.Maturity}
	if terms.Maturity == 0 {
		terms.Maturity = horizon
	}

	direction := strings.ToLower(strings.TrimSpace(spec.Direction))

	switch ProductKind(strings.ToLower(strings.TrimSpace(spec.Kind))) {
	case KindSwap:
		d := Payer
		if direction == string(Receiver) {
			d = Receiver
		}
		return Swap{TradeTerms: terms, Direction: d}, nil
	case KindFX:
		d := Short
		if direction == string(Long) {
			d = Long
		}
		return FXForward{TradeTerms: terms, Direction: d}, nil
	case KindOption:
		strike := defaultStrike
		if spec.Strike != nil {
			strike = *spec.Strike
		}
		return CallOption{TradeTerms: terms, Strike: strike}, nil
	default:
		return Unsupported{TradeTerms: terms, Label: spec.Kind}, nil
	}
}

// NewDerivatives 여러 튜플 변환, 첫 에러에서 중단
func NewDerivatives(specs []TradeSpec, horizon float64) ([]Derivative, error) {
	trades := make([]Derivative, 0, len(specs))
	for _, spec := range specs {
		d, err := NewDerivative(spec, horizon)
		if err != nil {
			return nil, err
		}
		trades = append(trades, d)
	}
	return trades, nil
}
