package xva

// =============================================================================
// Hazard Rate Shock (scenario save/restore)
// =============================================================================
// 동일 Counterparty를 여러 goroutine에서 충격할 경우 호출자가 직렬화해야 함.
// 동시 시나리오는 Counterparty.WithHazardRate 사본을 사용.

// ShockHazardRate hazard를 factor배로 변경하고 이전 값을 반환
func ShockHazardRate(cp *Counterparty, factor float64) float64 {
	old := cp.HazardRate
	cp.HazardRate *= factor
	return old
}

// ResetHazardRate 저장해 둔 값으로 복원 (비트 단위 동일)
func ResetHazardRate(cp *Counterparty, old float64) {
	cp.HazardRate = old
}

// HazardStack 중첩 충격용 save/restore 스택
type HazardStack struct {
	cp    *Counterparty
	saved []float64
}

// NewHazardStack cp에 대한 스택 생성
func NewHazardStack(cp *Counterparty) *HazardStack {
	return &HazardStack{cp: cp}
}

// Shock 현재 값을 저장하고 충격 적용
func (s *HazardStack) Shock(factor float64) {
	s.saved = append(s.saved, ShockHazardRate(s.cp, factor))
}

// Restore 가장 최근 충격 직전 값으로 복원, 스택이 비어 있으면 false
func (s *HazardStack) Restore() bool {
	if len(s.saved) == 0 {
		return false
	}
	last := len(s.saved) - 1
	ResetHazardRate(s.cp, s.saved[last])
	s.saved = s.saved[:last]
	return true
}

// RestoreAll 최초 상태로 복원
func (s *HazardStack) RestoreAll() {
	for s.Restore() {
	}
}

// Depth 적용 중인 충격 수
func (s *HazardStack) Depth() int {
	return len(s.saved)
}
