package container

import (
	"fmt"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the bindings of one concern.
//
// Register is called as soon as the provider is added. Boot is called after
// every provider has registered, so it may resolve anything.
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton("forms.submitter", func(c *container.Container) any { ... })
//	}
//
//	func (p *AppServiceProvider) Boot(app *container.Container) error {
//	    router := container.Resolve[*routing.Router](app, "router")
//	    router.Get("/", ...)
//	    return nil
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here, use Boot() for that.
	Register(app *Container)

	// Boot is called after all providers are registered. An error aborts
	// application startup.
	Boot(app *Container) error

	// Provides returns the abstract keys a deferred provider registers.
	Provides() []string

	// IsDeferred returns true if this provider should be loaded lazily,
	// only when one of its Provides() abstracts is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred (lazy) providers.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // abstract → provider
	registered map[ServiceProvider]bool
	booted     bool

	// loading serializes deferred registration so concurrent first
	// resolutions all observe the new bindings.
	loading sync.Mutex
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	r := &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
	app.onMissing(r.loadDeferred)
	return r
}

// Register adds a provider and calls its Register() method (unless deferred).
// A provider added after Boot is booted immediately.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, abstract := range provider.Provides() {
			r.deferred[abstract] = provider
		}
		r.mu.Unlock()
		return nil
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		return bootProvider(r.app, provider)
	}
	return nil
}

// loadDeferred registers the deferred provider for abstract and boots it, or
// queues it for Boot when the registry has not booted yet. It reports
// whether one was found.
func (r *ProviderRegistry) loadDeferred(abstract string) bool {
	r.loading.Lock()
	r.mu.Lock()
	provider, ok := r.deferred[abstract]
	if ok {
		for _, a := range provider.Provides() {
			delete(r.deferred, a)
		}
		if !r.booted {
			r.eager = append(r.eager, provider)
		}
	}
	booted := r.booted
	r.mu.Unlock()
	if !ok {
		r.loading.Unlock()
		return false
	}

	provider.Register(r.app)
	r.loading.Unlock()
	if booted {
		if err := bootProvider(r.app, provider); err != nil {
			panic(err.Error())
		}
	}
	return true
}

// Boot calls Boot() on all eager providers in registration order and stops
// at the first error. Must be called after ALL providers have been registered.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range eager {
		if err := bootProvider(r.app, provider); err != nil {
			return err
		}
	}
	return nil
}

func bootProvider(app *Container, provider ServiceProvider) error {
	if err := provider.Boot(app); err != nil {
		return fmt.Errorf("boot %T: %w", provider, err)
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
