package di

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/scopekit/errors"
	"github.com/kbukum/scopekit/logger"
)

// Container owns a registry, a scoped-instance store, decorators and a
// disposal tracker. A child container observes its parent for lookups but
// never owns it; the creator of a scope disposes it before the parent.
type Container struct {
	id       string
	name     string
	parent   *Container
	log      *logger.Logger
	observer Observer

	// resolveMu is shared by a root and all of its scopes. Top-level
	// resolutions hold it until they return, so two goroutines can never
	// wait on each other's singleton or scoped entries.
	resolveMu *sync.Mutex

	mu          sync.RWMutex
	registry    *registry
	scoped      map[*registration]*scopedSlot
	scopedOrder []*registration
	decorators  map[reflect.Type][]decorator
	tracker     *tracker
	disposed    bool
}

// scopedSlot holds one Scoped instance. Its lock serializes creation so a
// container never builds two instances for the same registration.
type scopedSlot struct {
	mu      sync.Mutex
	value   any
	created bool
}

type decorator func(v any) (any, error)

// Option configures a root container.
type Option func(*Container)

// WithName sets the container name used in logs and telemetry.
func WithName(name string) Option {
	return func(c *Container) { c.name = name }
}

// WithLogger sets the logger that receives container events and teardown failures.
func WithLogger(l *logger.Logger) Option {
	return func(c *Container) { c.log = l }
}

// WithObserver installs a hook called around every resolution.
func WithObserver(o Observer) Option {
	return func(c *Container) { c.observer = o }
}

// New creates a root container.
func New(opts ...Option) *Container {
	c := newContainer(nil)
	c.name = "root"
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get("di")
	}
	c.log = c.log.WithFields(logger.Fields(
		logger.FieldContainerID, c.id,
		logger.FieldContainer, c.name,
	))
	return c
}

func newContainer(parent *Container) *Container {
	resolveMu := &sync.Mutex{}
	if parent != nil {
		resolveMu = parent.resolveMu
	}
	return &Container{
		id:         uuid.NewString(),
		resolveMu:  resolveMu,
		parent:     parent,
		registry:   newRegistry(),
		scoped:     make(map[*registration]*scopedSlot),
		decorators: make(map[reflect.Type][]decorator),
		tracker:    newTracker(),
	}
}

// ID returns the unique container identifier.
func (c *Container) ID() string { return c.id }

// Name returns the container name.
func (c *Container) Name() string { return c.name }

// Parent returns the parent container, nil for a root.
func (c *Container) Parent() *Container { return c.parent }

// IsDisposed reports whether Dispose has run.
func (c *Container) IsDisposed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.disposed
}

// begin starts a top-level resolution. The caller must call end.
func (c *Container) begin() *resolution {
	c.resolveMu.Lock()
	return &resolution{
		ctx:       context.Background(),
		container: c,
		stack:     &stack{},
		release:   c.resolveMu.Unlock,
	}
}

func (c *Container) subject() string {
	return "container " + c.name + " (" + c.id + ")"
}

// CreateScope creates a child container wrapped in a Scope.
func (c *Container) CreateScope() (*Scope, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.disposed {
		return nil, errors.Disposed(c.subject())
	}

	child := newContainer(c)
	child.name = c.name + "/scope"
	child.observer = c.observer
	child.log = c.log.WithFields(logger.Fields(
		logger.FieldContainerID, child.id,
		logger.FieldContainer, child.name,
		logger.FieldParentID, c.id,
	))

	c.log.Debug("Scope created", logger.Fields("scope_id", child.id))
	return &Scope{container: child}, nil
}

func (c *Container) register(e *registration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return errors.Disposed(c.subject())
	}
	if err := c.registry.add(e); err != nil {
		return err
	}
	if e.external {
		c.tracker.track(e.value)
	}

	c.log.Debug("Registered", logger.Fields(
		logger.FieldType, typeName(e.typ),
		logger.FieldKey, e.key.String(),
		logger.FieldLifetime, e.lifetime.String(),
	))
	return nil
}

func (c *Container) addDecorator(typ reflect.Type, d decorator) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return errors.Disposed(c.subject())
	}
	c.decorators[typ] = append(c.decorators[typ], d)
	return nil
}

// scopedInstance returns the Scoped instance of e owned by c, creating it
// on first use.
func (c *Container) scopedInstance(e *registration, res *resolution) (any, error) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil, errors.Disposed(c.subject())
	}
	slot, ok := c.scoped[e]
	if !ok {
		slot = &scopedSlot{}
		c.scoped[e] = slot
	}
	c.mu.Unlock()

	slot.mu.Lock()
	defer slot.mu.Unlock()

	if slot.created {
		return slot.value, nil
	}
	if e.isDisposed() {
		return nil, errors.Disposed(e.describe())
	}

	v, err := e.invoke(res)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		c.closeLate(v)
		return nil, errors.Disposed(c.subject())
	}
	slot.value = v
	slot.created = true
	c.scopedOrder = append(c.scopedOrder, e)
	c.mu.Unlock()

	return v, nil
}

// RegistrationInfo describes a registration for introspection.
type RegistrationInfo struct {
	Type        string
	Key         string
	Keyed       bool
	Lifetime    Lifetime
	Initialized bool
}

// Registrations returns the container's own registrations in registration
// order. Initialized reports whether a cached instance exists for c.
func (c *Container) Registrations() []RegistrationInfo {
	c.mu.RLock()
	entries := c.registry.all()
	created := make(map[*registration]bool, len(c.scopedOrder))
	for _, e := range c.scopedOrder {
		created[e] = true
	}
	c.mu.RUnlock()

	result := make([]RegistrationInfo, 0, len(entries))
	for _, e := range entries {
		info := RegistrationInfo{
			Type:     typeName(e.typ),
			Key:      e.key.Name(),
			Keyed:    !e.key.IsDefault(),
			Lifetime: e.lifetime,
		}
		switch e.lifetime {
		case Singleton:
			info.Initialized = e.initialized()
		case Scoped:
			info.Initialized = created[e]
		}
		result = append(result, info)
	}
	return result
}

func (c *Container) observe(ctx context.Context, typ reflect.Type, key Key, depth int) (context.Context, func(error)) {
	if c.observer == nil {
		return ctx, func(error) {}
	}
	return c.observer.OnResolve(ctx, ResolveEvent{
		ContainerID: c.id,
		Container:   c.name,
		Type:        typeName(typ),
		Key:         key.String(),
		Depth:       depth,
	})
}
