package bootstrap

import (
	"time"

	"github.com/kbukum/scopekit/di"
	"github.com/kbukum/scopekit/logger"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

// appOptions collects all option values before applying to App.
type appOptions struct {
	logger          *logger.Logger
	container       *di.Container
	observer        di.Observer
	modules         []di.Module
	gracefulTimeout *time.Duration
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is auto-initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithContainer uses c as the root container instead of building one from
// the config. The application still disposes it on shutdown.
func WithContainer(c *di.Container) Option {
	return func(o *appOptions) {
		o.container = c
	}
}

// WithObserver attaches a resolution observer to the root container built
// from the config. It replaces the telemetry observer and is ignored when
// WithContainer is used.
func WithObserver(obs di.Observer) Option {
	return func(o *appOptions) {
		o.observer = obs
	}
}

// WithModules configures the modules on the root container during NewApp.
func WithModules(modules ...di.Module) Option {
	return func(o *appOptions) {
		o.modules = append(o.modules, modules...)
	}
}
