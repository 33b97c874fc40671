package middlewarectx_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/resume-builder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resume-builder/internal/lib/metrics"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRateLimitMiddleware(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 2)(next)

	tests := []struct {
		name       string
		wantStatus int
	}{
		{name: "first request within burst", wantStatus: http.StatusOK},
		{name: "second request within burst", wantStatus: http.StatusOK},
		{name: "burst exhausted", wantStatus: http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/form", nil))
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
	assert.Equal(t, 2, calls)
}

func TestRateLimitMiddleware_LimiterPerInstance(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	first := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 1)(next)
	second := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 1)(next)

	rr := httptest.NewRecorder()
	first.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	second.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(middlewarectx.MetricsMiddleware(m))
	r.Get("/api/v1/form/entries/{kind}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	for range 3 {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/form/entries/work", nil))
		assert.Equal(t, http.StatusCreated, rr.Code)
	}

	got := testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/api/v1/form/entries/{kind}", "201"))
	assert.InDelta(t, 3, got, 0)
}
