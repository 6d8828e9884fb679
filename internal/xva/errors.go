package xva

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter 시뮬레이션 이전에 거부되는 입력 (0 나눗셈, 퇴화 배열 등)
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrShapeMismatch 시간 차원(n_steps+1) 또는 경로 수 불일치
	ErrShapeMismatch = errors.New("shape mismatch")
)

// ParameterError 잘못된 파라미터 이름과 값을 함께 전달
// errors.Is(err, ErrInvalidParameter) 로 판별
type ParameterError struct {
	Name   string
	Value  interface{}
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s=%v (%s)", ErrInvalidParameter, e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

func invalidParam(name string, value interface{}, reason string) error {
	return &ParameterError{Name: name, Value: value, Reason: reason}
}

func shapeMismatch(what string, got, want int) error {
	return fmt.Errorf("%w: %s has length %d, want %d", ErrShapeMismatch, what, got, want)
}
