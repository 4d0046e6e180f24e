// Package di is the scopekit dependency injection runtime.
//
// Factories are registered per logical type (and optional key) with a
// lifetime policy. Resolution walks the container hierarchy, detects
// cycles, applies the lifetime cache, runs decorators and tracks
// disposable values for teardown.
//
// # Registration
//
//	c := di.New(di.WithName("app"))
//	di.Register[*Database](c, func(di.Resolver) (*Database, error) {
//	    return OpenDatabase("conn-string-A")
//	}, di.AsSingleton())
//	di.Register[*Repository](c, func(r di.Resolver) (*Repository, error) {
//	    db, err := di.Resolve[*Database](r)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &Repository{DB: db}, nil
//	})
//
// # Resolution
//
//	repo := di.MustResolve[*Repository](c)
//
// Factories must resolve their dependencies through the Resolver they
// receive, never through a captured container: the Resolver carries the
// in-flight resolution stack used for cycle detection and points at the
// container that started the request, so child overrides apply.
//
// # Scopes
//
//	scope, _ := c.CreateScope()
//	defer scope.Dispose()
//	session := di.MustResolve[*Session](scope)
//
// Eager validation with (*Container).Validate resolves every local
// registration, so it populates Singleton and Scoped caches as a side
// effect. Call it at startup, not as a dry run.
//
// # Concurrency
//
// A root container and its scopes share one resolve lock, held for the
// whole of each top-level resolution. Nested resolutions through the
// Resolver reuse it. A factory that resolves from a goroutine it starts
// blocks forever.
package di
