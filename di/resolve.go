package di

import (
	"fmt"
	"reflect"

	"github.com/kbukum/scopekit/errors"
)

// Resolve resolves the default registration of T.
//
// Example:
//
//	repo, err := di.Resolve[*Repository](scope)
//	if err != nil {
//	    return fmt.Errorf("failed to get repository: %w", err)
//	}
func Resolve[T any](r Resolver) (T, error) {
	return resolveKey[T](r, Key{})
}

// ResolveKeyed resolves T registered under key, falling back to the
// default registration of the same container before asking its parent.
func ResolveKeyed[T any](r Resolver, key string) (T, error) {
	return resolveKey[T](r, Named(key))
}

func resolveKey[T any](r Resolver, key Key) (T, error) {
	var zero T
	typ := reflect.TypeFor[T]()
	res := r.begin()
	defer res.end()
	v, err := res.resolve(typ, key)
	if err != nil {
		return zero, err
	}
	out, err := cast[T](v, typ)
	if err != nil {
		return zero, errors.ResolutionFailed(typeName(typ), key.String(), err)
	}
	return out, nil
}

// ResolveAll resolves every registration of T visible from r, own
// registrations first, then each ancestor's. It returns an empty slice when
// nothing is registered.
func ResolveAll[T any](r Resolver) ([]T, error) {
	typ := reflect.TypeFor[T]()
	res := r.begin()
	defer res.end()
	values, err := res.resolveAll(typ)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(values))
	for _, v := range values {
		t, err := cast[T](v, typ)
		if err != nil {
			return nil, errors.ResolutionFailed(typeName(typ), "", err)
		}
		out = append(out, t)
	}
	return out, nil
}

// MustResolve resolves T and panics on failure.
// Use this in wiring code where a missing dependency is a programming error.
func MustResolve[T any](r Resolver) T {
	v, err := Resolve[T](r)
	if err != nil {
		panic(fmt.Sprintf("di: failed to resolve %s: %v", reflect.TypeFor[T](), err))
	}
	return v
}

// TryResolve resolves T, returning false on any failure.
// Use this when a dependency is optional.
//
// Example:
//
//	if metrics, ok := di.TryResolve[MetricsClient](r); ok {
//	    metrics.RecordEvent(...)
//	}
func TryResolve[T any](r Resolver) (T, bool) {
	v, err := Resolve[T](r)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// IsRegistered reports whether T resolves from r. It performs a real
// resolution; a not-found failure for T itself yields false, and so does
// any resolution through a disposed container.
func IsRegistered[T any](r Resolver) bool {
	_, err := Resolve[T](r)
	return registered(err, reflect.TypeFor[T]())
}

// IsRegisteredKeyed is IsRegistered for a keyed request.
func IsRegisteredKeyed[T any](r Resolver, key string) bool {
	_, err := ResolveKeyed[T](r, key)
	return registered(err, reflect.TypeFor[T]())
}

func registered(err error, typ reflect.Type) bool {
	if err == nil {
		return true
	}
	if errors.HasCode(err, errors.ErrCodeDisposed) {
		return false
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeRegistrationNotFound {
		return true
	}
	return appErr.Details["type"] != typeName(typ)
}

// cast re-specialises a type-erased value. A nil value yields the zero T.
func cast[T any](v any, typ reflect.Type) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	out, ok := v.(T)
	if !ok {
		return zero, errors.TypeMismatch(typeName(typ), v)
	}
	return out, nil
}
