package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestApplication(t).routes()

	w := do(t, h, http.MethodGet, "/api/nothing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "could not be found")

	w = do(t, h, http.MethodDelete, "/api/recursos", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApplication(t)
	h := app.traceID(app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRateLimit(t *testing.T) {
	h := newTestApplication(t, func(cfg *config) {
		cfg.rateLimit.rps = 0.001
		cfg.rateLimit.burst = 2
	}).routes()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/status", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/status", nil).Code)

	w := do(t, h, http.MethodGet, "/api/status", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// Liveness stays outside the limiter.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/", nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestApplication(t).routes()
	seedLab(t, h)

	do(t, h, http.MethodPost, "/api/registros/entrada", map[string]string{"matricula": "alice", "identificadorRecurso": "PC-01"})
	do(t, h, http.MethodPost, "/api/registros/saida", map[string]string{"matricula": "bob"})

	w := do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `tracker_lifecycle_transitions_total{operation="check_in",outcome="accepted"} 1`)
	assert.Contains(t, body, `tracker_lifecycle_transitions_total{operation="check_out",outcome="no_active_session"} 1`)
	assert.Contains(t, body, `route="/api/registros/entrada"`)
}
