package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/JackRW23/xva-desk-simulator/internal/book"
	"github.com/JackRW23/xva-desk-simulator/internal/report"
	"github.com/JackRW23/xva-desk-simulator/internal/xva"
	"github.com/JackRW23/xva-desk-simulator/pkg/logger"
)

// BookSource netting set 목록/조회 (book.Repository가 구현)
type BookSource interface {
	ListNettingSets(ctx context.Context) ([]book.Summary, error)
	LoadNettingSet(ctx context.Context, name string) (*book.NettingSet, error)
}

// BookResult 한 netting set의 배치 결과
type BookResult struct {
	Name  string
	RunID string
	CVA   float64
	DVA   float64
	Err   error
}

// XVABatchJob revalues every stored netting set
// ⭐ 한 book 실패가 나머지를 멈추지 않음 (오류는 모아서 반환)
type XVABatchJob struct {
	books    BookSource
	engine   *xva.Engine
	template xva.Params
	schedule string
	logger   *logger.Logger

	mu      sync.Mutex
	summary string // 직전 RunBatch 요약
}

// NewXVABatchJob creates a new XVA batch job
// template은 xva.ParamsFromConfig로 만든 시장/시뮬레이션 기본값
func NewXVABatchJob(books BookSource, engine *xva.Engine, template xva.Params, schedule string, log *logger.Logger) *XVABatchJob {
	return &XVABatchJob{
		books:    books,
		engine:   engine,
		template: template,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *XVABatchJob) Name() string {
	return "xva_batch"
}

// Schedule returns the cron schedule (SCHEDULER_XVA_BATCH)
func (j *XVABatchJob) Schedule() string {
	return j.schedule
}

// Run executes the batch
func (j *XVABatchJob) Run(ctx context.Context) error {
	_, err := j.RunBatch(ctx)
	return err
}

// Summary 직전 배치 요약 (scheduler.Summarizer)
func (j *XVABatchJob) Summary() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.summary
}

func (j *XVABatchJob) setSummary(summary string) {
	j.mu.Lock()
	j.summary = summary
	j.mu.Unlock()
}

// RunBatch runs every netting set and returns per-book results
func (j *XVABatchJob) RunBatch(ctx context.Context) ([]BookResult, error) {
	summaries, err := j.books.ListNettingSets(ctx)
	if err != nil {
		j.setSummary("list failed")
		return nil, fmt.Errorf("list netting sets: %w", err)
	}

	j.logger.WithField("books", len(summaries)).Info("Starting XVA batch")

	results := make([]BookResult, 0, len(summaries))
	var errs []error

	for _, summary := range summaries {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		result := j.runBook(ctx, summary.Name)
		if result.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", summary.Name, result.Err))
			j.logger.WithError(result.Err).WithField("book", summary.Name).Error("XVA batch book failed")
		} else {
			j.logger.WithFields(map[string]interface{}{
				"book":   summary.Name,
				"run_id": result.RunID,
				"cva":    report.FormatMoney(result.CVA),
				"dva":    report.FormatMoney(result.DVA),
			}).Info("XVA batch book completed")
		}
		results = append(results, result)
	}

	var totalCVA, totalDVA float64
	for _, result := range results {
		if result.Err == nil {
			totalCVA += result.CVA
			totalDVA += result.DVA
		}
	}
	j.setSummary(fmt.Sprintf("books=%d failed=%d cva=%s dva=%s",
		len(results), len(errs), report.FormatMoney(totalCVA), report.FormatMoney(totalDVA)))

	j.logger.WithFields(map[string]interface{}{
		"books":     len(results),
		"failed":    len(errs),
		"total_cva": report.FormatMoney(totalCVA),
	}).Info("XVA batch finished")

	return results, errors.Join(errs...)
}

func (j *XVABatchJob) runBook(ctx context.Context, name string) BookResult {
	set, err := j.books.LoadNettingSet(ctx, name)
	if err != nil {
		return BookResult{Name: name, Err: err}
	}

	run, err := j.engine.Run(ctx, set.Params(j.template))
	if err != nil {
		return BookResult{Name: name, Err: err}
	}

	return BookResult{Name: name, RunID: run.RunID, CVA: run.CVA, DVA: run.DVA}
}
