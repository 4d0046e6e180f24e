package component

import (
	"github.com/kbukum/scopekit/di"
)

// Provide registers a component factory as a Singleton keyed by name, so
// the component is built once and can be collected with Collect.
// Dependencies of the component are resolved through r as usual.
//
// Example:
//
//	component.Provide(c, "postgres", func(r di.Resolver) (component.Component, error) {
//	    cfg, err := di.Resolve[*DatabaseConfig](r)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewPostgres(cfg), nil
//	})
func Provide(c *di.Container, name string, factory di.Factory[Component]) error {
	return di.Register(c, factory, di.AsSingleton(), di.WithKey(name))
}

// Collect resolves every component visible from r and returns them in a
// Registry, nearest container first and in registration order.
func Collect(r di.Resolver) (*Registry, error) {
	components, err := di.ResolveAll[Component](r)
	if err != nil {
		return nil, err
	}

	registry := NewRegistry()
	for _, c := range components {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
