package di

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/kbukum/scopekit/errors"
)

// factoryFunc is the type-erased form of a registered factory.
type factoryFunc func(r Resolver) (any, error)

// registration pairs a factory with its lifetime and key. A Singleton
// caches its instance here; Scoped instances live in the resolving
// container instead.
type registration struct {
	typ      reflect.Type
	key      Key
	lifetime Lifetime
	factory  factoryFunc
	// external marks values supplied through RegisterInstance. The owning
	// container's tracker closes them, not the registration.
	external bool
	value    any

	mu       sync.Mutex
	instance any
	created  bool
	disposed bool
}

func (e *registration) id() entryKey {
	return entryKey{typ: e.typ, key: e.key}
}

func (e *registration) describe() string {
	if e.key.IsDefault() {
		return typeName(e.typ)
	}
	return fmt.Sprintf("%s[%s]", typeName(e.typ), e.key)
}

func (e *registration) isDisposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}

func (e *registration) initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.created
}

// instantiate applies the lifetime policy for a resolution started at
// res.container.
func (e *registration) instantiate(res *resolution) (any, error) {
	switch e.lifetime {
	case Singleton:
		return e.singleton(res)
	case Scoped:
		return res.container.scopedInstance(e, res)
	default:
		if e.isDisposed() {
			return nil, errors.Disposed(e.describe())
		}
		return e.invoke(res)
	}
}

// singleton creates the instance at most once. The lock is held while the
// factory runs so concurrent first resolutions wait instead of racing.
func (e *registration) singleton(res *resolution) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return nil, errors.Disposed(e.describe())
	}
	if e.created {
		return e.instance, nil
	}

	v, err := e.invoke(res)
	if err != nil {
		return nil, err
	}
	e.instance = v
	e.created = true
	return v, nil
}

// invoke calls the factory, converting a panic into an error.
func (e *registration) invoke(res *resolution) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("factory for %s panicked: %v", e.describe(), r)
		}
	}()
	return e.factory(res)
}

// dispose marks the registration disposed and hands back the cached
// instance when the registration owns it.
func (e *registration) dispose() (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return nil, false
	}
	e.disposed = true

	instance, created := e.instance, e.created
	e.instance = nil
	e.created = false
	if !created || e.external {
		return nil, false
	}
	return instance, true
}
