package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/scopekit/component"
	"github.com/kbukum/scopekit/di"
	"github.com/kbukum/scopekit/logger"
	"github.com/kbukum/scopekit/observability"
)

// App represents a generic application with uniform lifecycle management.
// The type parameter C is the config type, which must satisfy the Config interface.
// Any struct embedding config.ServiceConfig automatically satisfies Config.
//
// Example:
//
//	app, err := bootstrap.NewApp(&myConfig)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*MyConfig]) error {
//	    return di.AddDecorator(a.Container, withCaching)
//	})
//	app.Run(context.Background())
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Container  *di.Container
	Components *component.Registry
	Logger     *logger.Logger
	Telemetry  *observability.Telemetry
	Summary    *Summary

	gracefulTimeout time.Duration
	validateOnStart bool
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, initializes the logger and
// telemetry, builds the root container and registers cfg and the logger in it.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		gracefulTimeout: 15 * time.Second,
		validateOnStart: base.Container.ValidateOnStart,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	// Logger: use custom if provided, otherwise init from config.
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	if o.container != nil {
		app.Container = o.container
	} else {
		observer := o.observer
		if observer == nil && base.Telemetry.Enabled {
			tel, err := observability.Setup(context.Background(), base.Telemetry, base.Name, base.Version, base.Environment)
			if err != nil {
				return nil, fmt.Errorf("telemetry setup: %w", err)
			}
			app.Telemetry = tel
			observer = tel.Observer
		}

		containerOpts := []di.Option{
			di.WithName(base.Container.Name),
			di.WithLogger(app.Logger.WithComponent("di")),
		}
		if observer != nil {
			containerOpts = append(containerOpts, di.WithObserver(observer))
		}
		app.Container = di.New(containerOpts...)
	}

	if err := app.registerCore(o.modules); err != nil {
		app.Container.Dispose()
		app.shutdownTelemetry(context.Background())
		return nil, err
	}

	app.Summary = NewSummary(base.Name, base.Version)
	return app, nil
}

// registerCore makes the config and logger resolvable and configures the
// modules passed with WithModules.
func (a *App[C]) registerCore(modules []di.Module) error {
	if err := di.RegisterInstance(a.Container, a.Cfg); err != nil {
		return fmt.Errorf("registering config: %w", err)
	}
	if err := di.RegisterInstance(a.Container, a.Logger); err != nil {
		return fmt.Errorf("registering logger: %w", err)
	}
	if err := a.Container.AddModule(modules...); err != nil {
		return fmt.Errorf("configuring modules: %w", err)
	}
	return nil
}

// AddModule configures modules on the root container.
func (a *App[C]) AddModule(modules ...di.Module) error {
	return a.Container.AddModule(modules...)
}

// RegisterComponent registers an already built component in the root
// container, keyed by its name.
func (a *App[C]) RegisterComponent(c component.Component) error {
	if c == nil {
		return fmt.Errorf("component must not be nil")
	}
	return di.RegisterInstance(a.Container, c, di.WithKey(c.Name()))
}

// ProvideComponent registers a component factory in the root container.
// The component is built when the application starts.
func (a *App[C]) ProvideComponent(name string, factory di.Factory[component.Component]) error {
	return component.Provide(a.Container, name, factory)
}

// OnConfigure registers a callback to run during the configure phase.
// Use this to set up business-layer dependencies after infrastructure is started.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck verifies that all started components are healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	results := a.Components.HealthAll(ctx)
	var unhealthy []string
	for _, h := range results {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run executes the full application lifecycle for long-running services:
// Initialize, OnStart hooks, Configure, Validate, ReadyCheck, OnReady hooks,
// block on signal, then graceful shutdown.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask executes a finite task with the full bootstrap lifecycle.
// Unlike Run, it does not block on shutdown signals. It runs the task
// function and gracefully shuts down when the task completes or the context
// is canceled (e.g., via SIGINT/SIGTERM).
//
// Example:
//
//	app, _ := bootstrap.NewApp(&cfg)
//	app.RunTask(ctx, func(ctx context.Context) error {
//	    importer := di.MustResolve[*Importer](app.Container)
//	    return importer.Run(ctx)
//	})
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		_ = a.stop()
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}

	return taskErr
}

// startup performs the common initialization sequence shared by Run and RunTask.
func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	// Phase 1: Initialize
	if err := a.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	// Phase 2: Configure
	if err := a.configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	if a.validateOnStart {
		if err := a.Container.Validate(); err != nil {
			return fmt.Errorf("container validation failed: %w", err)
		}
		a.Logger.Info("Container validated")
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.DisplaySummary()

	return nil
}

// initialize resolves every component visible from the root container and
// starts them in registration order (Phase 1).
func (a *App[C]) initialize(ctx context.Context) error {
	a.Logger.Info("Phase 1: Starting components")

	registry, err := component.Collect(a.Container)
	if err != nil {
		return fmt.Errorf("failed to resolve components: %w", err)
	}
	a.Components = registry

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}

	a.Logger.Info("Phase 1: All components started", logger.Fields(logger.FieldCount, registry.Len()))
	return nil
}

// DisplaySummary prints the startup summary with the root container's
// registrations and live component health.
func (a *App[C]) DisplaySummary() {
	a.Summary.DisplaySummary(a.Components, a.Container)
}

// configure runs registered configuration callbacks (Phase 2).
func (a *App[C]) configure(ctx context.Context) error {
	if len(a.onConfigure) == 0 {
		return nil
	}

	a.Logger.Info("Phase 2: Running configuration callbacks", map[string]interface{}{
		"count": len(a.onConfigure),
	})

	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}

	a.Logger.Info("Phase 2: Configuration complete")
	return nil
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal, graceful shutdown starting", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App[C]) Shutdown(ctx context.Context) error {
	return a.stop()
}

// stop runs OnStop hooks, stops components in reverse order, disposes the
// root container and flushes telemetry, all within the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error

	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", map[string]interface{}{
			"error": err.Error(),
		})
		shutdownErr = err
	}

	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", map[string]interface{}{
			"error": err.Error(),
		})
		shutdownErr = err
	}

	// Teardown failures are logged by the container itself.
	a.Container.Dispose()

	if err := a.shutdownTelemetry(ctx); err != nil && shutdownErr == nil {
		shutdownErr = err
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}

func (a *App[C]) shutdownTelemetry(ctx context.Context) error {
	if a.Telemetry == nil {
		return nil
	}
	err := a.Telemetry.Shutdown(ctx)
	if err != nil {
		a.Logger.Error("Telemetry shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
	}
	a.Telemetry = nil
	return err
}
