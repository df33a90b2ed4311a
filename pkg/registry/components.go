package registry

import (
	"github.com/arthur-debert/skel/pkg/types"
)

// Components aggregates the role registries the engine resolves capabilities
// from: generators and mount point factories. Registration happens at
// startup; afterwards resolution is a pure lookup with an explicit
// not-found outcome that callers must treat as a soft failure.
type Components struct {
	generators     Registry[types.Generator]
	mountFactories Registry[types.MountFactory]
}

// NewComponents creates the capability registry, pre-registering the given
// generators and mount factories under their own IDs.
func NewComponents(generators []types.Generator, factories []types.MountFactory) *Components {
	c := &Components{
		generators:     New[types.Generator](),
		mountFactories: New[types.MountFactory](),
	}
	for _, g := range generators {
		MustRegister(c.generators, g.ID(), g)
	}
	for _, f := range factories {
		MustRegister(c.mountFactories, f.ID(), f)
	}
	return c
}

// Generator resolves a generator by ID. A not-found error carries
// errors.ErrNotFound and must not abort the process.
func (c *Components) Generator(id string) (types.Generator, error) {
	return c.generators.Get(id)
}

// MountFactory resolves a mount point factory by ID.
func (c *Components) MountFactory(id string) (types.MountFactory, error) {
	return c.mountFactories.Get(id)
}

// RegisterGenerator adds a generator after construction. Used by hosts that
// plug in their own generators.
func (c *Components) RegisterGenerator(g types.Generator) error {
	return c.generators.Register(g.ID(), g)
}

// RegisterMountFactory adds a mount factory after construction.
func (c *Components) RegisterMountFactory(f types.MountFactory) error {
	return c.mountFactories.Register(f.ID(), f)
}

// Generators returns the IDs of all registered generators.
func (c *Components) Generators() []string {
	return c.generators.List()
}

// MountFactories returns the IDs of all registered mount factories.
func (c *Components) MountFactories() []string {
	return c.mountFactories.List()
}

// EachGenerator calls fn for every registered generator, in ID order.
func (c *Components) EachGenerator(fn func(types.Generator)) {
	for _, id := range c.generators.List() {
		if g, err := c.generators.Get(id); err == nil {
			fn(g)
		}
	}
}
