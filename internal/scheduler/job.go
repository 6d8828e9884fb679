package scheduler

import (
	"context"
	"time"
)

// historyLimit 작업별로 보관하는 실행 기록 수
const historyLimit = 100

// Job 스케줄 작업 (EOD XVA 재평가 배치가 대표 구현)
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	Name() string
	Run(ctx context.Context) error

	// Schedule cron 표현식 (초 포함), 예: "0 0 18 * * *" = 매일 18시 EOD
	Schedule() string
}

// Summarizer 직전 실행의 한 줄 요약을 제공하는 작업
// 구현하면 runJob이 JobResult.Summary에 기록 (예: "books=3 failed=1 cva=12,345.67")
type Summarizer interface {
	Summary() string
}

// JobResult 한 번의 실행 결과 (재시도 포함)
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Summary   string        `json:"summary,omitempty"`
}

// JobHistory 최근 historyLimit개 실행 기록, 오래된 것부터
type JobHistory struct {
	Results []JobResult
}

// Add 기록 추가, 한도를 넘으면 가장 오래된 것부터 버림
func (h *JobHistory) Add(result JobResult) {
	h.Results = append(h.Results, result)
	if n := len(h.Results); n > historyLimit {
		h.Results = append([]JobResult(nil), h.Results[n-historyLimit:]...)
	}
}

// Latest returns up to n most recent results
func (h *JobHistory) Latest(n int) []JobResult {
	if n > len(h.Results) {
		n = len(h.Results)
	}
	if n <= 0 {
		return []JobResult{}
	}
	return h.Results[len(h.Results)-n:]
}

// Last 직전 실행 결과
func (h *JobHistory) Last() (JobResult, bool) {
	if len(h.Results) == 0 {
		return JobResult{}, false
	}
	return h.Results[len(h.Results)-1], true
}

func (h *JobHistory) Failures() int {
	failed := 0
	for _, result := range h.Results {
		if !result.Success {
			failed++
		}
	}
	return failed
}

// SuccessRate 0.0 - 1.0, 기록이 없으면 0
func (h *JobHistory) SuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0.0
	}
	return float64(len(h.Results)-h.Failures()) / float64(len(h.Results))
}
