package app_test

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/userform/framework/app"
	"github.com/km-arc/userform/framework/config"
	"github.com/km-arc/userform/framework/http/validation"
	"github.com/km-arc/userform/framework/providers"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:            "UserForm",
			Env:             "testing",
			URL:             "http://localhost",
			Port:            "0",
			ShutdownTimeout: time.Second,
		},
		Log:     config.LogConfig{Level: "debug", Format: "text"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics", Namespace: "userform"},
	}
}

func contactFields(time.Time) []validation.Field {
	return []validation.Field{
		{Name: "email", Rules: []validation.Rule{validation.Email("Invalid email format")}},
	}
}

func newApp(t *testing.T, cfg *config.Config, logs io.Writer) *app.Application {
	t.Helper()
	a := app.New(app.WithConfig(cfg), app.WithLogOutput(logs))
	require.NoError(t, a.Register(&providers.ValidationServiceProvider{Fields: contactFields}))
	return a
}

func TestApplication_Boot(t *testing.T) {
	var logs bytes.Buffer
	a := newApp(t, testConfig(), &logs)

	require.NoError(t, a.Boot())

	assert.Equal(t, []string{"email"}, a.Schema().Fields())
	assert.Equal(t, "testing", a.Environment())
	assert.Same(t, a, a.Make("app"))
	assert.Contains(t, logs.String(), `msg="form schema loaded"`)
	assert.Contains(t, logs.String(), "source=built-in")
}

func TestApplication_MetricsEndpoint(t *testing.T) {
	a := newApp(t, testConfig(), io.Discard)
	h, err := a.Handler()
	require.NoError(t, err)

	a.Metrics().ObserveSubmission("user_data", "accepted")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `userform_submissions_total{form="user_data",status="accepted"} 1`)
}

func TestApplication_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	a := newApp(t, cfg, io.Discard)
	h, err := a.Handler()
	require.NoError(t, err)

	assert.Nil(t, a.Metrics())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplication_BootFailsOnBadSchema(t *testing.T) {
	cfg := testConfig()
	cfg.Form.SchemaFile = "forms/bad.yaml"

	a := app.New(app.WithConfig(cfg), app.WithLogOutput(io.Discard))
	require.NoError(t, a.Register(&providers.ValidationServiceProvider{
		FS: fstest.MapFS{
			"forms/bad.yaml": {Data: []byte("fields:\n  - name: a\n    rules: ['same:b']\n")},
		},
	}))

	_, err := a.Handler()
	require.Error(t, err)

	var se *validation.SchemaError
	assert.ErrorAs(t, err, &se)
	assert.Contains(t, err.Error(), "forms/bad.yaml")
}

func TestApplication_Serve(t *testing.T) {
	var logs bytes.Buffer
	a := newApp(t, testConfig(), &logs)
	h, err := a.Handler()
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln, h) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.True(t, strings.Contains(logs.String(), `msg="server stopped"`))
	assert.Contains(t, logs.String(), "env=testing")
}
