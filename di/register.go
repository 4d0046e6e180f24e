package di

import (
	"reflect"

	"github.com/kbukum/scopekit/errors"
)

// Factory builds a T. Nested dependencies must be resolved through r.
type Factory[T any] func(r Resolver) (T, error)

// RegisterOption configures a registration.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	lifetime Lifetime
	key      Key
}

// WithLifetime sets the lifetime policy. The default is Transient.
func WithLifetime(l Lifetime) RegisterOption {
	return func(o *registerOptions) { o.lifetime = l }
}

// AsSingleton is shorthand for WithLifetime(Singleton).
func AsSingleton() RegisterOption { return WithLifetime(Singleton) }

// AsScoped is shorthand for WithLifetime(Scoped).
func AsScoped() RegisterOption { return WithLifetime(Scoped) }

// WithKey registers under a named key instead of the default entry.
func WithKey(name string) RegisterOption {
	return func(o *registerOptions) { o.key = Named(name) }
}

func applyRegisterOptions(opts []RegisterOption) registerOptions {
	o := registerOptions{lifetime: Transient}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Register adds a factory for T to c.
//
// Fails with DISPOSED if c is disposed or DUPLICATE_REGISTRATION if T is
// already registered on c under the same key.
func Register[T any](c *Container, factory Factory[T], opts ...RegisterOption) error {
	if factory == nil {
		return errors.InvalidInput("factory", "must not be nil")
	}
	o := applyRegisterOptions(opts)
	if !o.lifetime.valid() {
		return errors.InvalidInput("lifetime", "unknown lifetime "+o.lifetime.String())
	}

	return c.register(&registration{
		typ:      reflect.TypeFor[T](),
		key:      o.key,
		lifetime: o.lifetime,
		factory: func(r Resolver) (any, error) {
			return factory(r)
		},
	})
}

// RegisterInstance registers an existing value as a Singleton. If the value
// implements io.Closer, c closes it on Dispose. Lifetime options are
// ignored.
func RegisterInstance[T any](c *Container, instance T, opts ...RegisterOption) error {
	o := applyRegisterOptions(opts)
	return c.register(&registration{
		typ:      reflect.TypeFor[T](),
		key:      o.key,
		lifetime: Singleton,
		external: true,
		value:    instance,
		factory: func(Resolver) (any, error) {
			return instance, nil
		},
	})
}

// AddDecorator appends a transform applied to every T resolved from c,
// after instantiation and in registration order. Decorators are not
// inherited by child containers.
func AddDecorator[T any](c *Container, fn func(T) (T, error)) error {
	if fn == nil {
		return errors.InvalidInput("decorator", "must not be nil")
	}
	typ := reflect.TypeFor[T]()
	return c.addDecorator(typ, func(v any) (any, error) {
		in, err := cast[T](v, typ)
		if err != nil {
			return nil, err
		}
		return fn(in)
	})
}
