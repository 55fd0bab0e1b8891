// Package container provides the IoC (Inversion of Control) container and
// Service Provider system the application kernel is assembled from.
//
// # Overview
//
// The container holds the application's long-lived services: configuration,
// the logger, the router, the view engine, the compiled form schema and the
// metrics collector. Go has no runtime constructor reflection, so every
// binding is an explicit factory function.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()        safe to resolve everything after this
//  4. Serve requests
//
// # Bindings
//
//	// Transient: new instance every Make()
//	c.Bind("submission.id", func(c *container.Container) any { return uuid.New() })
//
//	// Singleton: created once, reused
//	c.Singleton("logger", func(c *container.Container) any {
//	    cfg := container.Resolve[*config.Config](c, "config")
//	    return logging.New(os.Stderr, logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
//	})
//
//	// Pre-built value
//	c.Instance("config", cfg)
//
//	// Alias
//	c.Alias("validation.schema", "schema")
//
// # Resolving
//
//	raw := c.Make("router")
//	router := container.Resolve[*routing.Router](c, "router")
//	collector, ok := container.TryResolve[*metrics.Collector](c, "metrics")
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton("forms.submitter", func(c *container.Container) any {
//	        return forms.NewLogSubmitter(container.Resolve[*slog.Logger](c, "logger"))
//	    })
//	}
//
//	func (p *AppServiceProvider) Boot(app *container.Container) error {
//	    // safe to resolve other bindings here
//	    return nil
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	if err := registry.Boot(); err != nil { ... }
//
// # Deferred Providers
//
// A deferred provider is registered on the first Make of one of the
// abstracts it Provides, and booted right away if the registry has booted.
//
//	type MetricsServiceProvider struct{ container.BaseProvider }
//
//	func (p *MetricsServiceProvider) IsDeferred() bool   { return true }
//	func (p *MetricsServiceProvider) Provides() []string { return []string{"metrics"} }
package container
