package resumebuilder

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/resume-builder/internal/backend"
	"github.com/magabrotheeeer/resume-builder/internal/config"
	"github.com/magabrotheeeer/resume-builder/internal/lib/metrics"
	"github.com/magabrotheeeer/resume-builder/internal/services/analytics"
	"github.com/magabrotheeeer/resume-builder/internal/services/entitlement"
	"github.com/magabrotheeeer/resume-builder/internal/services/form"
	"github.com/magabrotheeeer/resume-builder/internal/services/notice"
	"github.com/magabrotheeeer/resume-builder/internal/session"
	"github.com/magabrotheeeer/resume-builder/internal/storage"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

// fakeAPI минимальная реализация внешнего API.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/api/user/register", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"user":{"email":"jane@example.com","is_paid":false,"free_used":false,"can_generate":true}}`)
	})
	r.Get("/api/load-data", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":null}`)
	})
	r.Get("/api/payment/config", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"price":25.0,"providers":{"stripe":{"enabled":true,"public_key":"pk"},"paypal":{"enabled":false},"coingate":{"enabled":true}}}`)
	})
	r.Post("/api/payment/stripe/verify", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"paid":true,"email":"jane@example.com"}`)
	})
	r.Post("/api/generate-resume", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = io.WriteString(w, "%PDF-1.4 test")
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) (http.Handler, *metrics.Metrics) {
	t.Helper()
	log := newNoopLogger()
	api := backend.NewClient(fakeAPI(t).URL+"/api", 0)

	cfg := &config.Config{}
	cfg.RPS = 1000
	cfg.Burst = 1000
	cfg.PagePath = "/"

	m := metrics.New(prometheus.NewRegistry())
	board := notice.New(time.Minute, log)
	tracker := analytics.New(log, api, false, "visitor", nil)
	ctrl := entitlement.New(log, api, storage.NewFileStore(filepath.Join(t.TempDir(), "identity.json")), board, entitlement.Options{
		Tracker:  tracker,
		Metrics:  m,
		Schedule: func(_ time.Duration, f func()) { f() },
	})
	sess := session.New(log, session.Deps{
		Backend:    api,
		Controller: ctrl,
		Form:       form.New(0, 0, log),
		Notices:    board,
		Tracker:    tracker,
	})
	_, err := sess.Start(context.Background(), "")
	require.NoError(t, err)

	r := chi.NewRouter()
	RegisterRoutes(r, log, cfg, sess, m)
	return r, m
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, reader))
	return w
}

func TestRoutes_TrialFlow(t *testing.T) {
	router, m := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/resume", "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "без email генерация закрыта")

	w = do(t, router, http.MethodPost, "/api/v1/identity", `{"email":"Jane@Example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"trial_available"`)

	w = do(t, router, http.MethodPatch, "/api/v1/form", `{"personal_info":{"name":"Jane Doe"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodPost, "/api/v1/resume", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Resume_Jane_Doe_")
	assert.Equal(t, "%PDF-1.4 test", w.Body.String())

	w = do(t, router, http.MethodPost, "/api/v1/resume", "")
	assert.Equal(t, http.StatusPaymentRequired, w.Code, "пробная генерация уже использована")

	w = do(t, router, http.MethodGet, "/api/v1/notice", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Upgrade for unlimited generations")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodPost, "/api/v1/resume", "402")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodPost, "/api/v1/resume", "200")))
}

func TestRoutes_FormEntries(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/form/entries/education", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":3`)

	w = do(t, router, http.MethodDelete, "/api/v1/form/entries/education/3", "")
	assert.Equal(t, http.StatusOK, w.Code)

	for id := 1; id < form.DefaultWorkEntries; id++ {
		w = do(t, router, http.MethodDelete, "/api/v1/form/entries/work/"+strconv.Itoa(id), "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w = do(t, router, http.MethodDelete, "/api/v1/form/entries/work/4", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, http.MethodGet, "/api/v1/form", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"label":"Company 1 (Most Recent - Senior)"`)
}

func TestRoutes_PaymentConfigAndReturn(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/v1/payments/config", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price":25`)

	w = do(t, router, http.MethodPost, "/api/v1/payments", `{"provider":"stripe"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "оплата без email невозможна")

	w = do(t, router, http.MethodGet, "/payment/return", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"outcome":"none"`)
}

func TestRoutes_StripeReturnUpgrades(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/identity", `{"email":"jane@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/payment/return?session_id=cs_test_1", "")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/payment/return", w.Header().Get("Location"))
	assert.Equal(t, "paid", w.Header().Get("X-Payment-Outcome"))

	w = do(t, router, http.MethodGet, "/payment/return?session_id=cs_test_1", "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "none", w.Header().Get("X-Payment-Outcome"), "повторный редирект не обрабатывается")

	w = do(t, router, http.MethodGet, "/api/v1/identity", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"premium"`)
}
