package container_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/userform/framework/container"
)

// ── stub providers ────────────────────────────────────────────────────────────

type eagerProvider struct {
	container.BaseProvider
	registerCalls int
	bootCalls     int
}

func (p *eagerProvider) Register(app *container.Container) {
	p.registerCalls++
	app.Singleton("eager-svc", func(c *container.Container) any { return "eager" })
}

func (p *eagerProvider) Boot(app *container.Container) error {
	p.bootCalls++
	return nil
}

// deferredProvider is lazy: only registered when "deferred-svc" is first resolved.
type deferredProvider struct {
	container.BaseProvider
	registerCalls int
	bootCalls     int
}

func (p *deferredProvider) Register(app *container.Container) {
	p.registerCalls++
	app.Singleton("deferred-svc", func(c *container.Container) any { return "deferred-value" })
	app.Singleton("deferred-other", func(c *container.Container) any { return "other" })
}

func (p *deferredProvider) Boot(app *container.Container) error {
	p.bootCalls++
	return nil
}

func (p *deferredProvider) IsDeferred() bool   { return true }
func (p *deferredProvider) Provides() []string { return []string{"deferred-svc", "deferred-other"} }

type failingProvider struct {
	container.BaseProvider
}

func (p *failingProvider) Register(app *container.Container) {}

func (p *failingProvider) Boot(app *container.Container) error {
	return errors.New("schema file missing")
}

// orderProvider records its name into a shared log on Boot.
type orderProvider struct {
	container.BaseProvider
	name string
	log  *[]string
}

func (p *orderProvider) Register(app *container.Container) {}

func (p *orderProvider) Boot(app *container.Container) error {
	*p.log = append(*p.log, p.name)
	return nil
}

// ── Eager providers ───────────────────────────────────────────────────────────

func TestRegistry_EagerProvider(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	require.NoError(t, reg.Register(p))
	assert.Equal(t, 1, p.registerCalls, "Register() runs immediately")
	assert.Zero(t, p.bootCalls, "Boot() waits for registry.Boot()")

	require.NoError(t, reg.Boot())
	assert.Equal(t, 1, p.bootCalls)
	assert.Equal(t, "eager", c.Make("eager-svc"))
}

func TestRegistry_BootIsIdempotent(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	p := &eagerProvider{}
	require.NoError(t, reg.Register(p))

	assert.False(t, reg.Booted())
	require.NoError(t, reg.Boot())
	require.NoError(t, reg.Boot())

	assert.True(t, reg.Booted())
	assert.Equal(t, 1, p.bootCalls)
}

func TestRegistry_DuplicateRegisterIgnored(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	p := &eagerProvider{}

	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Register(p))

	assert.Equal(t, 1, p.registerCalls)
	assert.Len(t, reg.Providers(), 1)
}

func TestRegistry_BootOrderFollowsRegistration(t *testing.T) {
	var log []string
	reg := container.NewProviderRegistry(container.New())
	for _, name := range []string{"config", "log", "routing"} {
		require.NoError(t, reg.Register(&orderProvider{name: name, log: &log}))
	}

	require.NoError(t, reg.Boot())
	assert.Equal(t, []string{"config", "log", "routing"}, log)
}

func TestRegistry_BootError(t *testing.T) {
	var log []string
	reg := container.NewProviderRegistry(container.New())
	require.NoError(t, reg.Register(&failingProvider{}))
	require.NoError(t, reg.Register(&orderProvider{name: "after", log: &log}))

	err := reg.Boot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file missing")
	assert.Contains(t, err.Error(), "failingProvider")
	assert.Empty(t, log, "providers after a failure are not booted")
}

func TestRegistry_RegisterAfterBoot_BootsImmediately(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	require.NoError(t, reg.Boot())

	p := &eagerProvider{}
	require.NoError(t, reg.Register(p))
	assert.Equal(t, 1, p.bootCalls)

	err := reg.Register(&failingProvider{})
	assert.Error(t, err)
}

// ── Deferred providers ────────────────────────────────────────────────────────

func TestRegistry_DeferredProvider(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &deferredProvider{}
	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Boot())

	assert.Zero(t, p.registerCalls, "Register() waits for the first Make()")
	assert.Empty(t, reg.Providers(), "deferred providers are not listed")

	assert.Equal(t, "deferred-value", c.Make("deferred-svc"))
	assert.Equal(t, "other", c.Make("deferred-other"))
	assert.Equal(t, "deferred-value", c.Make("deferred-svc"))

	assert.Equal(t, 1, p.registerCalls)
	assert.Equal(t, 1, p.bootCalls)
}

func TestRegistry_DeferredProvider_BeforeBoot(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	p := &deferredProvider{}
	require.NoError(t, reg.Register(p))

	v, ok := container.TryResolve[string](c, "deferred-svc")
	require.True(t, ok)
	assert.Equal(t, "deferred-value", v)
	assert.Zero(t, p.bootCalls)

	require.NoError(t, reg.Boot())
	assert.Equal(t, 1, p.bootCalls, "booted with the rest of the registry")
	assert.Equal(t, 1, p.registerCalls)
}

// ── BaseProvider defaults ─────────────────────────────────────────────────────

func TestBaseProvider_Defaults(t *testing.T) {
	var p container.BaseProvider

	assert.NoError(t, p.Boot(container.New()))
	assert.False(t, p.IsDeferred())
	assert.Empty(t, p.Provides())
}
