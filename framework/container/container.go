package container

import (
	"fmt"
	"sync"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory is a function that builds a concrete value from the container.
type Factory func(c *Container) any

// binding holds a registered factory and, for singletons, its cached result.
type binding struct {
	factory   Factory
	singleton bool

	once     sync.Once
	instance any
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container behind the application kernel.
//
// It supports:
//   - Bind / Singleton / Instance / Alias
//   - Make / Resolve (generic)
//   - a fallback hook used by the provider registry to load deferred providers
type Container struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// alias → abstract (canonical key)
	aliases map[string]string

	// missing is consulted when Make finds no binding. It reports whether it
	// registered one.
	missing func(abstract string) bool
}

// New creates an empty container.
func New() *Container {
	c := &Container{
		bindings: make(map[string]*binding),
		aliases:  make(map[string]string),
	}
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient (new instance each Make) factory.
//
//	c.Bind("submission.id", func(c *container.Container) any { return uuid.New() })
func (c *Container) Bind(abstract string, factory Factory) {
	c.bind(abstract, &binding{factory: factory})
}

// Singleton registers a factory whose result is cached after first resolution.
//
//	c.Singleton("logger", func(c *container.Container) any {
//	    return logging.New(os.Stderr, slog.LevelInfo, "text")
//	})
func (c *Container) Singleton(abstract string, factory Factory) {
	c.bind(abstract, &binding{factory: factory, singleton: true})
}

// Instance registers a pre-built value as a singleton.
//
//	c.Instance("config", cfg)
func (c *Container) Instance(abstract string, instance any) {
	b := &binding{singleton: true, instance: instance}
	b.once.Do(func() {})
	c.bind(abstract, b)
}

func (c *Container) bind(abstract string, b *binding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.aliases, abstract)
	c.bindings[abstract] = b
}

// Alias registers an alternative name for an abstract.
//
//	c.Alias("router", "http.router")
func (c *Container) Alias(abstract, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aliases[alias] = abstract
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract from the container. It panics when nothing is
// bound under that name, matching a programming error at bootstrap.
//
//	router := c.Make("router").(*routing.Router)
func (c *Container) Make(abstract string) any {
	b, ok := c.lookup(abstract)
	if !ok {
		panic(fmt.Sprintf("container: no binding registered for [%s]", abstract))
	}
	return c.build(b)
}

func (c *Container) lookup(abstract string) (*binding, bool) {
	c.mu.RLock()
	key := c.canonical(abstract)
	b, ok := c.bindings[key]
	missing := c.missing
	c.mu.RUnlock()
	if ok || missing == nil {
		return b, ok
	}

	// Another caller may be loading the same deferred provider, so look
	// again whatever missing reports.
	missing(key)
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok = c.bindings[key]
	return b, ok
}

func (c *Container) build(b *binding) any {
	if !b.singleton {
		return b.factory(c)
	}
	b.once.Do(func() { b.instance = b.factory(c) })
	return b.instance
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound returns true if an abstract has been registered.
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.bindings[c.canonical(abstract)]
	return ok
}

// canonical resolves an alias to its canonical key (must hold mu).
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

func (c *Container) onMissing(fn func(abstract string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.missing = fn
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve is a generic helper that calls Make and type-asserts the result.
//
//	logger := container.Resolve[*slog.Logger](c, "logger")
func Resolve[T any](c *Container, abstract string) T {
	instance := c.Make(abstract)
	typed, ok := instance.(T)
	if !ok {
		panic(fmt.Sprintf("container: Resolve[%T]: [%s] resolved to %T", *new(T), abstract, instance))
	}
	return typed
}

// TryResolve is like Resolve but reports failure instead of panicking,
// including when nothing is bound.
func TryResolve[T any](c *Container, abstract string) (T, bool) {
	b, ok := c.lookup(abstract)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := c.build(b).(T)
	return typed, ok
}
