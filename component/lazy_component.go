package component

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/scopekit/logger"
)

// Lazy is a Component that defers its expensive setup until first use.
// Start is a no-op; Initialize runs the initializer once it succeeds.
// Lazy implements io.Closer, so a container that owns it as a Singleton
// closes it on Dispose even if the application never stopped it.
type Lazy struct {
	name        string
	mu          sync.RWMutex
	initialized bool
	lastError   error
	initializer func(ctx context.Context) error
	healthCheck func(ctx context.Context) error
	closer      func() error
}

// NewLazy creates a lazy component with the given initializer.
func NewLazy(name string, initializer func(context.Context) error) *Lazy {
	return &Lazy{
		name:        name,
		initializer: initializer,
	}
}

// WithHealthCheck sets a custom health check function.
func (l *Lazy) WithHealthCheck(fn func(context.Context) error) *Lazy {
	l.healthCheck = fn
	return l
}

// WithCloser sets a custom close function.
func (l *Lazy) WithCloser(fn func() error) *Lazy {
	l.closer = fn
	return l
}

// Name returns the component name.
func (l *Lazy) Name() string { return l.name }

// Start does nothing; initialization happens on first Initialize.
func (l *Lazy) Start(context.Context) error { return nil }

// Stop releases the component.
func (l *Lazy) Stop(context.Context) error { return l.Close() }

// Initialize performs thread-safe lazy initialization using double-check locking.
// A failed initialization is retried on the next call.
func (l *Lazy) Initialize(ctx context.Context) error {
	l.mu.RLock()
	if l.initialized {
		l.mu.RUnlock()
		return nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initialized {
		return nil
	}
	if l.initializer == nil {
		return fmt.Errorf("no initializer for component: %s", l.name)
	}

	if err := l.initializer(ctx); err != nil {
		l.lastError = err
		return fmt.Errorf("failed to initialize %s: %w", l.name, err)
	}

	l.initialized = true
	l.lastError = nil
	logger.Debug("Lazy component initialized", logger.Fields(logger.FieldComponent, l.name))
	return nil
}

// IsInitialized returns whether the component has been successfully initialized.
func (l *Lazy) IsInitialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.initialized
}

// Health reports healthy before first use, unhealthy after a failed
// initialization, and the custom check's outcome once initialized.
func (l *Lazy) Health(ctx context.Context) Health {
	l.mu.RLock()
	initialized, lastErr := l.initialized, l.lastError
	l.mu.RUnlock()

	h := Health{Name: l.name, Status: StatusHealthy}
	switch {
	case lastErr != nil:
		h.Status = StatusUnhealthy
		h.Message = lastErr.Error()
	case !initialized:
		h.Message = "not initialized"
	case l.healthCheck != nil:
		if err := l.healthCheck(ctx); err != nil {
			h.Status = StatusUnhealthy
			h.Message = err.Error()
		}
	}
	return h
}

// Close shuts the component down and marks it uninitialized. It is safe to
// call more than once; the closer runs only while initialized.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.initialized {
		return nil
	}
	l.initialized = false
	if l.closer != nil {
		return l.closer()
	}
	return nil
}
