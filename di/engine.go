package di

import (
	"fmt"
	"io"
	"reflect"

	"github.com/kbukum/scopekit/errors"
)

// resolve runs the full resolution of (typ, key) for res.container.
func (res *resolution) resolve(typ reflect.Type, key Key) (any, error) {
	if res.stack.contains(typ) {
		return nil, errors.CircularDependency(res.stack.trace(typ))
	}
	return res.run(typ, key, nil)
}

// resolveAll resolves every registration of typ visible from res.container,
// nearest container first. The cycle check runs once for the whole batch.
func (res *resolution) resolveAll(typ reflect.Type) ([]any, error) {
	if res.stack.contains(typ) {
		return nil, errors.CircularDependency(res.stack.trace(typ))
	}

	entries, err := res.container.collect(typ)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(entries))
	for _, e := range entries {
		v, err := res.run(typ, e.key, e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// run pushes typ, finds the registration unless one is given, instantiates
// it, decorates the result and tracks it for teardown. The stack is popped
// on every exit path.
func (res *resolution) run(typ reflect.Type, key Key, entry *registration) (value any, err error) {
	res.stack.push(typ)
	defer res.stack.pop()

	c := res.container
	ctx, done := c.observe(res.ctx, typ, key, res.stack.depth())
	defer func() { done(err) }()

	if entry == nil {
		entry, err = c.findRegistration(typ, key)
		if err != nil {
			return nil, err
		}
	}

	raw, err := entry.instantiate(res.nested(ctx))
	if err != nil {
		return nil, wrapFailure(typ, key, err)
	}

	value, err = c.decorate(typ, raw)
	if err != nil {
		return nil, wrapFailure(typ, key, err)
	}

	if entry.lifetime != Transient {
		c.track(value, raw)
	}
	return value, nil
}

// findRegistration searches the exact (typ, key) entry, then the default
// entry of the same container for a keyed request, then the parent chain
// with the original key. Closer containers always win.
func (c *Container) findRegistration(typ reflect.Type, key Key) (*registration, error) {
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		if cur.disposed {
			cur.mu.RUnlock()
			return nil, errors.Disposed(cur.subject())
		}
		e, ok := cur.registry.get(typ, key)
		if !ok && !key.IsDefault() {
			e, ok = cur.registry.get(typ, Key{})
		}
		cur.mu.RUnlock()
		if ok {
			return e, nil
		}
	}
	return nil, errors.RegistrationNotFound(typeName(typ), key.String())
}

// collect gathers every registration of typ from c and then its ancestors.
func (c *Container) collect(typ reflect.Type) ([]*registration, error) {
	var out []*registration
	for cur := c; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		if cur.disposed {
			cur.mu.RUnlock()
			return nil, errors.Disposed(cur.subject())
		}
		out = append(out, cur.registry.getAll(typ)...)
		cur.mu.RUnlock()
	}
	return out, nil
}

// decorate applies the decorators registered on c for typ, in order.
// Decorators of parent containers are not inherited.
func (c *Container) decorate(typ reflect.Type, v any) (any, error) {
	c.mu.RLock()
	chain := c.decorators[typ]
	c.mu.RUnlock()

	for i, d := range chain {
		next, err := applyDecorator(d, v)
		if err != nil {
			return nil, fmt.Errorf("decorator %d: %w", i, err)
		}
		v = next
	}
	return v, nil
}

func applyDecorator(d decorator, v any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decorator panicked: %v", r)
		}
	}()
	return d(v)
}

// track hands a disposable, decorated value to c's tracker. A value that is
// the raw cached instance is already owned by its registration or by the
// scoped store, so only values the decorators produced are tracked.
func (c *Container) track(value, raw any) {
	closer, ok := value.(io.Closer)
	if !ok || identical(value, raw) {
		return
	}

	c.mu.RLock()
	disposed := c.disposed
	if !disposed {
		c.tracker.track(closer)
	}
	c.mu.RUnlock()

	if disposed {
		c.closeLate(value)
	}
}

// wrapFailure passes structured engine errors through and annotates any
// other failure with the requested type.
func wrapFailure(typ reflect.Type, key Key, err error) error {
	if appErr, ok := err.(*errors.AppError); ok && errors.IsEngineCode(appErr.Code) {
		return err
	}
	return errors.ResolutionFailed(typeName(typ), key.String(), err)
}
