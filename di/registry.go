package di

import (
	"reflect"

	"github.com/kbukum/scopekit/errors"
)

// registry maps (type, key) to registrations for a single container.
// It holds no lock of its own; the owning container serializes access.
type registry struct {
	entries []*registration
	index   map[entryKey]*registration
}

func newRegistry() *registry {
	return &registry{
		entries: make([]*registration, 0),
		index:   make(map[entryKey]*registration),
	}
}

// add inserts e, rejecting a duplicate (type, key) pair.
func (r *registry) add(e *registration) error {
	id := e.id()
	if _, exists := r.index[id]; exists {
		return errors.DuplicateRegistration(typeName(e.typ), e.key.String())
	}
	r.entries = append(r.entries, e)
	r.index[id] = e
	return nil
}

func (r *registry) get(typ reflect.Type, key Key) (*registration, bool) {
	e, ok := r.index[entryKey{typ: typ, key: key}]
	return e, ok
}

// getAll returns every registration for typ in insertion order, ignoring keys.
func (r *registry) getAll(typ reflect.Type) []*registration {
	var out []*registration
	for _, e := range r.entries {
		if e.typ == typ {
			out = append(out, e)
		}
	}
	return out
}

// all returns a copy of every registration in insertion order.
func (r *registry) all() []*registration {
	out := make([]*registration, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *registry) len() int { return len(r.entries) }

func (r *registry) clear() {
	r.entries = make([]*registration, 0)
	r.index = make(map[entryKey]*registration)
}
