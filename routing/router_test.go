package routing_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/userform/framework/logging"
	"github.com/km-arc/userform/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := routing.New(nil)
	r.Get("/", okHandler)
	r.Post("/", okHandler)

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/").Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, r, http.MethodDelete, "/").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/missing").Code)
}

func TestRouter_Handle(t *testing.T) {
	r := routing.New(nil)
	r.Handle("/metrics", http.HandlerFunc(okHandler))

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/metrics").Code)
}

// ── Groups & Prefixes ────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := routing.New(nil)
	r.Prefix("/api", func(api *routing.Router) {
		api.Post("/validate", okHandler)
	})

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/api/validate").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPost, "/validate").Code)
}

// ── Middleware ───────────────────────────────────────────────────────────────

func TestRouter_RecoversPanics(t *testing.T) {
	r := routing.New(logging.NewNop())
	r.Get("/boom", func(w http.ResponseWriter, req *http.Request) { panic("boom") })

	assert.Equal(t, http.StatusInternalServerError, do(t, r, http.MethodGet, "/boom").Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := routing.New(logging.New(&buf, slog.LevelInfo, "text"))
	r.Get("/", okHandler)

	do(t, r, http.MethodGet, "/")

	line := buf.String()
	assert.Contains(t, line, `msg="http request"`)
	assert.Contains(t, line, "method=GET")
	assert.Contains(t, line, "path=/")
	assert.Contains(t, line, "status=200")
	assert.Contains(t, line, "bytes=2")
}
