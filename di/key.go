package di

import "reflect"

// Key discriminates several registrations of the same type. The zero Key
// is the default entry, which is distinct from Named("").
type Key struct {
	name  string
	named bool
}

// Named returns a Key for the given name.
func Named(name string) Key {
	return Key{name: name, named: true}
}

// IsDefault reports whether k is the default (unnamed) key.
func (k Key) IsDefault() bool { return !k.named }

// Name returns the key name, empty for the default key.
func (k Key) Name() string { return k.name }

func (k Key) String() string {
	if !k.named {
		return ""
	}
	if k.name == "" {
		return `""`
	}
	return k.name
}

// entryKey identifies a registration inside one registry.
type entryKey struct {
	typ reflect.Type
	key Key
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
