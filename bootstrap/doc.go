// Package bootstrap orchestrates application lifecycle around a root
// dependency container.
//
// NewApp loads defaults, validates the typed config, builds the root
// container (named after the service, logging through the service logger,
// observed by OpenTelemetry when telemetry is enabled) and registers the
// config and logger as instances.
//
//	app, err := bootstrap.NewApp(&cfg, bootstrap.WithModules(repositories, services))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app.ProvideComponent("postgres", newPostgres)
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Run starts every component.Component visible from the root container,
// runs configuration callbacks, optionally validates the container, and
// blocks until SIGINT/SIGTERM. Shutdown runs OnStop hooks, stops components
// in reverse, disposes the container and flushes telemetry.
package bootstrap
