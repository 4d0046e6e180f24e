package di

import (
	"fmt"
	"io"

	"github.com/kbukum/scopekit/logger"
)

// Dispose tears the container down. It is idempotent and never fails:
// every close error is logged and teardown continues. Order: scoped
// instances, then registrations (cached singletons), then tracked values
// such as RegisterInstance objects, then decorators. Within each step
// values are closed in reverse creation order. Children are not disposed.
func (c *Container) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true

	scoped := make([]scopedValue, 0, len(c.scopedOrder))
	for _, e := range c.scopedOrder {
		scoped = append(scoped, scopedValue{entry: e, value: c.scoped[e].value})
	}
	c.scoped = nil
	c.scopedOrder = nil

	entries := c.registry.all()
	c.registry.clear()

	tracked := c.tracker.drain()
	c.mu.Unlock()

	td := &teardown{log: c.log}

	for i := len(scoped) - 1; i >= 0; i-- {
		td.close(scoped[i].value, "scoped", scoped[i].entry.describe())
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if instance, owned := entries[i].dispose(); owned {
			td.close(instance, "singleton", entries[i].describe())
		}
	}
	for i := len(tracked) - 1; i >= 0; i-- {
		td.close(tracked[i], "tracked", fmt.Sprintf("%T", tracked[i]))
	}

	c.mu.Lock()
	c.decorators = nil
	c.mu.Unlock()

	c.log.Debug("Container disposed", logger.Fields(
		"closed", len(td.closed),
		"failures", td.failures,
	))
}

type scopedValue struct {
	entry *registration
	value any
}

// teardown closes each distinct value at most once per Dispose call.
type teardown struct {
	log      *logger.Logger
	closed   []any
	failures int
}

func (t *teardown) close(v any, source, name string) {
	closer, ok := v.(io.Closer)
	if !ok {
		return
	}
	for _, done := range t.closed {
		if identical(done, v) {
			return
		}
	}
	t.closed = append(t.closed, v)

	if err := safeClose(closer); err != nil {
		t.failures++
		t.log.Error("Dispose failed", logger.Fields(
			logger.FieldType, name,
			"source", source,
			logger.FieldError, err.Error(),
		))
	}
}

// closeLate closes a value created after its container was disposed.
func (c *Container) closeLate(v any) {
	closer, ok := v.(io.Closer)
	if !ok {
		return
	}
	if err := safeClose(closer); err != nil {
		c.log.Error("Dispose failed", logger.Fields(
			logger.FieldType, fmt.Sprintf("%T", v),
			"source", "late",
			logger.FieldError, err.Error(),
		))
	}
}

func safeClose(closer io.Closer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("close panicked: %v", r)
		}
	}()
	return closer.Close()
}
