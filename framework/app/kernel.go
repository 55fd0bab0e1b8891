package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/km-arc/userform/framework/config"
	"github.com/km-arc/userform/framework/container"
	gohttp "github.com/km-arc/userform/framework/http"
	"github.com/km-arc/userform/framework/http/validation"
	"github.com/km-arc/userform/framework/metrics"
	"github.com/km-arc/userform/framework/providers"
	"github.com/km-arc/userform/routing"
)

// Version is the application version, overridden at build time with
// -ldflags "-X github.com/km-arc/userform/framework/app.Version=...".
var Version = "0.1.0"

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Singleton(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// Option configures the core providers.
type Option func(*options)

type options struct {
	envFiles  []string
	cfg       *config.Config
	logOutput io.Writer
}

// WithEnvFiles loads configuration from the given .env files instead of ".env".
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.envFiles = files }
}

// WithConfig uses cfg as-is and skips .env loading.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogOutput sends application logs to w (default os.Stderr).
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// New creates the application and registers the framework core providers.
func New(opts ...Option) *Application {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}
	c.Instance("app", app)

	// Core providers have trivial Boot methods until the registry boots, so
	// registration cannot fail here.
	_ = registry.Register(&providers.ConfigServiceProvider{EnvFiles: o.envFiles, Config: o.cfg})
	_ = registry.Register(&providers.LogServiceProvider{Output: o.logOutput})
	_ = registry.Register(&providers.MetricsServiceProvider{})
	_ = registry.Register(&providers.RoutingServiceProvider{})

	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.Resolve[*config.Config](a.Container, "config")
}

// Logger resolves the application *slog.Logger.
func (a *Application) Logger() *slog.Logger {
	return container.Resolve[*slog.Logger](a.Container, "logger")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.Resolve[*routing.Router](a.Container, "router")
}

// Views resolves *gohttp.ViewEngine from the container.
func (a *Application) Views() *gohttp.ViewEngine {
	return container.Resolve[*gohttp.ViewEngine](a.Container, "view")
}

// Schema resolves the form schema in force today. It is bound during Boot.
func (a *Application) Schema() *validation.Schema {
	return container.Resolve[validation.Source](a.Container, "validation.schema").Schema()
}

// Metrics resolves the metrics collector (nil when metrics are disabled).
func (a *Application) Metrics() *metrics.Collector {
	return container.Resolve[*metrics.Collector](a.Container, "metrics")
}

// Handler boots the application if needed and returns the root HTTP handler.
func (a *Application) Handler() (http.Handler, error) {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return nil, err
		}
	}
	return a.Router(), nil
}

// Run boots the application (if needed) and serves HTTP on APP_PORT until ctx
// is cancelled, then shuts down gracefully within APP_SHUTDOWN_TIMEOUT.
func (a *Application) Run(ctx context.Context) error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}
	cfg := a.Config()
	ln, err := net.Listen("tcp", ":"+cfg.App.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return a.Serve(ctx, ln, handler)
}

// Serve runs the HTTP server on ln. It returns nil after a clean shutdown.
func (a *Application) Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	cfg := a.Config()
	logger := a.Logger()

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server started",
			slog.String("addr", ln.Addr().String()),
			slog.String("url", cfg.App.URL),
			slog.String("env", a.Environment()),
			slog.String("version", Version),
		)
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)

	case <-ctx.Done():
		logger.Info("shutting down", slog.Duration("timeout", cfg.App.ShutdownTimeout))

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown did not complete", slog.Any("error", err))
			if cerr := srv.Close(); cerr != nil {
				return errors.Join(err, cerr)
			}
			return err
		}
		logger.Info("server stopped")
		return nil
	}
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }

// Controller is an embeddable base for HTTP controllers.
type Controller struct{}

func (c *Controller) Request(r *http.Request) *gohttp.Request {
	return gohttp.NewRequest(r)
}
func (c *Controller) Response(w http.ResponseWriter) *gohttp.Response {
	return gohttp.NewResponse(w)
}
