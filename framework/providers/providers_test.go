package providers_test

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/userform/framework/config"
	"github.com/km-arc/userform/framework/container"
	"github.com/km-arc/userform/framework/http/validation"
	"github.com/km-arc/userform/framework/metrics"
	"github.com/km-arc/userform/framework/providers"
)

var bootTime = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

const schemaYAML = `
fields:
  - name: dateOfBirth
    rules:
      - required
      - before:yesterday
`

func boot(t *testing.T, cfg *config.Config, extra ...container.ServiceProvider) (*container.Container, error) {
	t.Helper()
	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&providers.ConfigServiceProvider{Config: cfg}))
	require.NoError(t, reg.Register(&providers.LogServiceProvider{Output: io.Discard}))
	require.NoError(t, reg.Register(&providers.MetricsServiceProvider{}))
	for _, p := range extra {
		require.NoError(t, reg.Register(p))
	}
	return c, reg.Boot()
}

func TestConfigServiceProvider_LoadsEnvFiles(t *testing.T) {
	t.Setenv("APP_NAME", "")
	require.NoError(t, os.Unsetenv("APP_NAME"))

	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&providers.ConfigServiceProvider{EnvFiles: []string{"../config/testdata/app.env"}}))

	cfg := container.Resolve[*config.Config](c, "configuration")
	assert.Equal(t, "Intake", cfg.App.Name)
}

func TestLogServiceProvider(t *testing.T) {
	var buf bytes.Buffer
	c := container.New()
	reg := container.NewProviderRegistry(c)
	require.NoError(t, reg.Register(&providers.ConfigServiceProvider{Config: &config.Config{
		App: config.AppConfig{Name: "UserForm", Env: "testing"},
		Log: config.LogConfig{Level: "warn", Format: "json"},
	}}))
	require.NoError(t, reg.Register(&providers.LogServiceProvider{Output: &buf}))

	logger := container.Resolve[*slog.Logger](c, "logger")
	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.Contains(t, buf.String(), `"app":"UserForm"`)
}

func TestMetricsServiceProvider_Deferred(t *testing.T) {
	cfg := &config.Config{Metrics: config.MetricsConfig{Enabled: true, Namespace: "intake"}}
	c, err := boot(t, cfg)
	require.NoError(t, err)

	collector := container.Resolve[*metrics.Collector](c, "metrics")
	require.NotNil(t, collector)
	assert.Same(t, collector, container.Resolve[*metrics.Collector](c, "metrics"))
}

func TestValidationServiceProvider_BuiltIn(t *testing.T) {
	var seen time.Time
	c, err := boot(t, &config.Config{}, &providers.ValidationServiceProvider{
		Fields: func(now time.Time) []validation.Field {
			seen = now
			return []validation.Field{{Name: "a", Rules: []validation.Rule{validation.Required("")}}}
		},
		Now: func() time.Time { return bootTime },
	})
	require.NoError(t, err)

	assert.Equal(t, bootTime, seen)
	schema := container.Resolve[validation.Source](c, "validation.schema").Schema()
	assert.Equal(t, []string{"a"}, schema.Fields())
}

func TestValidationServiceProvider_SchemaFile(t *testing.T) {
	cfg := &config.Config{Form: config.FormConfig{SchemaFile: "forms/user.yaml"}}
	c, err := boot(t, cfg, &providers.ValidationServiceProvider{
		FS:  fstest.MapFS{"forms/user.yaml": {Data: []byte(schemaYAML)}},
		Now: func() time.Time { return bootTime },
	})
	require.NoError(t, err)

	schema := container.Resolve[validation.Source](c, "validation.schema").Schema()
	rules := schema.Rules("dateOfBirth")
	require.Len(t, rules, 2)
	assert.Equal(t, bootTime.Add(-24*time.Hour), rules[1].Bound())
}

func TestValidationServiceProvider_RebuildsDaily(t *testing.T) {
	clock := bootTime
	files := fstest.MapFS{"forms/user.yaml": {Data: []byte(schemaYAML)}}
	cfg := &config.Config{Form: config.FormConfig{SchemaFile: "forms/user.yaml"}}
	c, err := boot(t, cfg, &providers.ValidationServiceProvider{
		FS:  files,
		Now: func() time.Time { return clock },
	})
	require.NoError(t, err)
	schemas := container.Resolve[validation.Source](c, "validation.schema")

	// The file is read once at boot.
	delete(files, "forms/user.yaml")

	clock = bootTime.Add(48 * time.Hour)
	rules := schemas.Schema().Rules("dateOfBirth")
	require.Len(t, rules, 2)
	assert.Equal(t, clock.Add(-24*time.Hour), rules[1].Bound())
}

func TestValidationServiceProvider_Errors(t *testing.T) {
	tests := map[string]struct {
		file     string
		provider *providers.ValidationServiceProvider
	}{
		"nothing configured": {
			provider: &providers.ValidationServiceProvider{},
		},
		"missing file": {
			file:     "forms/missing.yaml",
			provider: &providers.ValidationServiceProvider{FS: fstest.MapFS{}},
		},
		"invalid built-in": {
			provider: &providers.ValidationServiceProvider{
				Fields: func(time.Time) []validation.Field {
					return []validation.Field{{Name: ""}}
				},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := &config.Config{Form: config.FormConfig{SchemaFile: tt.file}}
			c, err := boot(t, cfg, tt.provider)
			assert.Error(t, err)
			assert.False(t, c.Bound("validation.schema"))
		})
	}
}
