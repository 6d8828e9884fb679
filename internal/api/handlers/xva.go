package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JackRW23/xva-desk-simulator/internal/book"
	"github.com/JackRW23/xva-desk-simulator/internal/report"
	"github.com/JackRW23/xva-desk-simulator/internal/xva"
	"github.com/JackRW23/xva-desk-simulator/pkg/logger"
)

// BookStore trade book 조회 (book.Repository가 구현)
type BookStore interface {
	ListNettingSets(ctx context.Context) ([]book.Summary, error)
	LoadNettingSet(ctx context.Context, name string) (*book.NettingSet, error)
}

// Limits 요청 크기 상한
type Limits struct {
	MaxBodyBytes int64 // 요청 body 바이트 상한 (초과 시 413)
	MaxCells     int   // paths×(steps+1) 상한 (초과 시 400)
}

// XVAHandler handles XVA run endpoints
// ⭐ SSOT: XVA API 핸들러는 이 구조체에서만
type XVAHandler struct {
	engine   *xva.Engine
	books    BookStore // nil이면 book 엔드포인트 503
	defaults xva.Params
	limits   Limits
	logger   *logger.Logger
}

// NewXVAHandler creates a new XVA handler
// defaults는 요청에서 생략된 필드를 채우는 템플릿
func NewXVAHandler(engine *xva.Engine, books BookStore, defaults xva.Params, limits Limits, log *logger.Logger) *XVAHandler {
	return &XVAHandler{
		engine:   engine,
		books:    books,
		defaults: defaults,
		limits:   limits,
		logger:   log,
	}
}

// RunResponse XVA 실행 응답
type RunResponse struct {
	Result    *xva.Result      `json:"result"`
	Formatted report.Formatted `json:"formatted"`
	Series    []report.Series  `json:"series"`
}

func newRunResponse(result *xva.Result) RunResponse {
	return RunResponse{
		Result:    result,
		Formatted: report.Format(result),
		Series:    report.ExposureSeries(result.Profile()),
	}
}

// ShockRequest hazard 충격 요청
type ShockRequest struct {
	Params xva.Params `json:"params"`
	Factor float64    `json:"factor"`
}

// ShockResponse hazard 충격 응답
type ShockResponse struct {
	*xva.ShockResult
	FormattedBaseCVA    string `json:"formatted_base_cva"`
	FormattedShockedCVA string `json:"formatted_shocked_cva"`
}

// Run runs one XVA simulation
// POST /api/xva/run
func (h *XVAHandler) Run(w http.ResponseWriter, r *http.Request) {
	params := h.template()
	if !h.decode(w, r, &params) {
		return
	}
	if err := h.checkSize(params); err != nil {
		h.fail(w, err, "XVA run rejected")
		return
	}

	result, err := h.engine.Run(r.Context(), params)
	if err != nil {
		h.fail(w, err, "XVA run failed")
		return
	}

	respondJSON(w, http.StatusOK, newRunResponse(result))
}

// Shock compares base and shocked CVA
// POST /api/xva/shock
func (h *XVAHandler) Shock(w http.ResponseWriter, r *http.Request) {
	req := ShockRequest{Params: h.template(), Factor: 2}
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.checkSize(req.Params); err != nil {
		h.fail(w, err, "Shock test rejected")
		return
	}

	shock, err := h.engine.ShockTest(r.Context(), req.Params, req.Factor)
	if err != nil {
		h.fail(w, err, "Shock test failed")
		return
	}

	respondJSON(w, http.StatusOK, ShockResponse{
		ShockResult:         shock,
		FormattedBaseCVA:    report.FormatMoney(shock.BaseCVA),
		FormattedShockedCVA: report.FormatMoney(shock.ShockedCVA),
	})
}

// ListBooks returns stored netting sets
// GET /api/books
func (h *XVAHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	if h.books == nil {
		respondError(w, http.StatusServiceUnavailable, "Trade book not configured")
		return
	}

	summaries, err := h.books.ListNettingSets(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to list netting sets")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"books": summaries,
		"count": len(summaries),
	})
}

// RunBook runs XVA for a stored netting set with default market parameters
// GET /api/books/{name}/xva
func (h *XVAHandler) RunBook(w http.ResponseWriter, r *http.Request) {
	if h.books == nil {
		respondError(w, http.StatusServiceUnavailable, "Trade book not configured")
		return
	}

	name := mux.Vars(r)["name"]
	set, err := h.books.LoadNettingSet(r.Context(), name)
	if err != nil {
		h.fail(w, err, "Failed to load netting set")
		return
	}

	params := set.Params(h.defaults)
	if err := h.checkSize(params); err != nil {
		h.fail(w, err, "XVA run rejected")
		return
	}

	result, err := h.engine.Run(r.Context(), params)
	if err != nil {
		h.fail(w, err, "XVA run failed")
		return
	}

	respondJSON(w, http.StatusOK, newRunResponse(result))
}

// template 요청 디코딩 대상 (defaults의 슬라이스를 공유하지 않도록 복사)
func (h *XVAHandler) template() xva.Params {
	params := h.defaults
	params.Trades = append([]xva.TradeSpec(nil), h.defaults.Trades...)
	return params
}

// decode body를 MaxBodyBytes로 제한해 디코딩, 실패 시 응답까지 쓰고 false
func (h *XVAHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := r.Body
	if h.limits.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.limits.MaxBodyBytes)
	}

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// checkSize 경로 행렬 크기 상한 (engine.Run 전에 메모리 폭주 차단)
// float64 곱셈으로 int 오버플로 회피
func (h *XVAHandler) checkSize(params xva.Params) error {
	if h.limits.MaxCells <= 0 {
		return nil
	}
	cells := float64(params.Paths) * float64(params.Steps+1)
	if cells > float64(h.limits.MaxCells) {
		return &xva.ParameterError{
			Name:   "n_paths",
			Value:  params.Paths,
			Reason: fmt.Sprintf("paths×(steps+1)=%.0f exceeds limit %d", cells, h.limits.MaxCells),
		}
	}
	return nil
}

func (h *XVAHandler) fail(w http.ResponseWriter, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).Error(msg)
		respondError(w, status, msg)
		return
	}

	h.logger.WithError(err).Warn(msg)
	respondError(w, status, err.Error())
}
