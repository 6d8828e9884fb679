package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JackRW23/xva-desk-simulator/internal/api/handlers"
	"github.com/JackRW23/xva-desk-simulator/internal/xva"
	"github.com/JackRW23/xva-desk-simulator/pkg/config"
	"github.com/JackRW23/xva-desk-simulator/pkg/logger"
)

func newTestRouter(limits config.RateLimitConfig) http.Handler {
	defaults := xva.Params{Spot: 1, Volatility: 0.2, Horizon: 1, Steps: 5, Paths: 50, Seed: 1}
	h := handlers.NewXVAHandler(xva.NewEngine(nil), nil, defaults, handlers.Limits{MaxBodyBytes: 1 << 20, MaxCells: 1_000_000}, logger.Nop())
	return NewRouter(h, limits, logger.Nop())
}

func TestHealth(t *testing.T) {
	router := newTestRouter(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRateLimit(t *testing.T) {
	router := newTestRouter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/xva/run", strings.NewReader(`{}`)))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// health는 제한 대상 아님
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

// /api 서브라우터의 메서드 불일치는 gorilla/mux가 404로 응답
func TestWrongMethodOnAPIRouteIsNotFound(t *testing.T) {
	router := newTestRouter(config.RateLimitConfig{RequestsPerSecond: 10, Burst: 10})

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/xva/run"},
		{"GET", "/api/xva/shock"},
		{"POST", "/api/books"},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tc.method, tc.path)
	}
}
