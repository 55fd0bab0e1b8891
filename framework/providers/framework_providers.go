package providers

import (
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/km-arc/userform/framework/config"
	"github.com/km-arc/userform/framework/container"
	gohttp "github.com/km-arc/userform/framework/http"
	"github.com/km-arc/userform/framework/logging"
	"github.com/km-arc/userform/framework/metrics"
	"github.com/km-arc/userform/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container as "config".
//
// Bound abstracts:
//   - "config"  → *config.Config
//   - "configuration" (alias)
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
	Config   *config.Config // pre-built configuration; skips .env loading
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	if p.Config != nil {
		app.Instance("config", p.Config)
	} else {
		envFiles := p.EnvFiles
		app.Singleton("config", func(c *container.Container) any {
			return config.Load(envFiles...)
		})
	}
	app.Alias("config", "configuration")
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider registers the structured logger, configured from
// LOG_LEVEL and LOG_FORMAT.
//
// Bound abstracts:
//   - "logger"  → *slog.Logger
type LogServiceProvider struct {
	container.BaseProvider
	Output io.Writer // default: os.Stderr
}

func (p *LogServiceProvider) Register(app *container.Container) {
	out := p.Output
	if out == nil {
		out = os.Stderr
	}
	app.Singleton("logger", func(c *container.Container) any {
		cfg := container.Resolve[*config.Config](c, "config")
		return logging.New(out, logging.ParseLevel(cfg.Log.Level), cfg.Log.Format).
			With(slog.String("app", cfg.App.Name), slog.String("env", cfg.App.Env))
	})
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router and, when metrics are
// enabled, mounts the Prometheus endpoint on it.
//
// Bound abstracts:
//   - "router"  → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Singleton("router", func(c *container.Container) any {
		return routing.New(container.Resolve[*slog.Logger](c, "logger"))
	})
}

func (p *RoutingServiceProvider) Boot(app *container.Container) error {
	cfg := container.Resolve[*config.Config](app, "config")
	if !cfg.Metrics.Enabled {
		return nil
	}
	router := container.Resolve[*routing.Router](app, "router")
	collector := container.Resolve[*metrics.Collector](app, "metrics")
	router.Handle(cfg.Metrics.Path, collector.Handler())
	return nil
}

// ── ViewServiceProvider ───────────────────────────────────────────────────────

// ViewServiceProvider registers the template engine.
//
// Bound abstracts:
//   - "view"   → *gohttp.ViewEngine
type ViewServiceProvider struct {
	container.BaseProvider
	FS  fs.FS  // template filesystem, default: os.DirFS("./resources/views")
	Ext string // file extension,    default: ".html"
}

func (p *ViewServiceProvider) Register(app *container.Container) {
	fsys := p.FS
	if fsys == nil {
		fsys = os.DirFS("./resources/views")
	}
	ext := p.Ext
	if ext == "" {
		ext = ".html"
	}

	app.Singleton("view", func(c *container.Container) any {
		return gohttp.NewViewEngine(fsys, ext)
	})
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider is deferred: the collector is only built the first
// time something resolves "metrics". With METRICS_ENABLED=false it resolves
// to a nil *metrics.Collector, which records nothing.
//
// Bound abstracts:
//   - "metrics" → *metrics.Collector
type MetricsServiceProvider struct {
	container.BaseProvider
}

func (p *MetricsServiceProvider) IsDeferred() bool   { return true }
func (p *MetricsServiceProvider) Provides() []string { return []string{"metrics"} }

func (p *MetricsServiceProvider) Register(app *container.Container) {
	app.Singleton("metrics", func(c *container.Container) any {
		cfg := container.Resolve[*config.Config](c, "config")
		if !cfg.Metrics.Enabled {
			return (*metrics.Collector)(nil)
		}
		return metrics.NewCollector(cfg.Metrics.Namespace, nil)
	})
}
