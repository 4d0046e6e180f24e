package di

import (
	"fmt"

	"github.com/kbukum/scopekit/errors"
)

// Module groups related registrations.
type Module interface {
	Configure(c *Container) error
}

// ModuleFunc adapts a function to Module.
type ModuleFunc func(c *Container) error

// Configure calls f(c).
func (f ModuleFunc) Configure(c *Container) error { return f(c) }

// AddModule configures the modules in order, stopping at the first error.
// A module should not resolve types it is still registering.
func (c *Container) AddModule(modules ...Module) error {
	for i, m := range modules {
		if c.IsDisposed() {
			return errors.Disposed(c.subject())
		}
		if err := m.Configure(c); err != nil {
			return fmt.Errorf("module %d (%T): %w", i, m, err)
		}
	}
	return nil
}
