// Package component defines lifecycle-managed infrastructure components and
// the registry that starts and stops them.
//
// Components live in the container as keyed Singletons:
//
//	component.Provide(c, "cache", newCacheComponent)
//	registry, err := component.Collect(c)
//	err = registry.StartAll(ctx)
//	defer registry.StopAll(ctx)
//
// A component that also implements io.Closer is closed by the container on
// Dispose, after the registry has stopped it.
package component
