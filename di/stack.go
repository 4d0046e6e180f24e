package di

import (
	"context"
	"reflect"
	"slices"
)

// Resolver is anything a resolution can start from: a *Container, a
// *Scope, or the handle a factory receives for nested resolutions.
type Resolver interface {
	begin() *resolution
}

// resolution is the per-call state shared by a top-level resolve and every
// nested resolve triggered from its factories.
type resolution struct {
	ctx       context.Context
	container *Container
	stack     *stack
	// release unlocks the tree's resolve lock; nil for nested handles.
	release func()
}

func (r *resolution) begin() *resolution { return r }

// end releases the resolve lock taken by a top-level begin.
func (r *resolution) end() {
	if r.release != nil {
		r.release()
		r.release = nil
	}
}

// nested returns the handle passed to a factory running under ctx.
func (r *resolution) nested(ctx context.Context) *resolution {
	return &resolution{ctx: ctx, container: r.container, stack: r.stack}
}

// ContextOf returns the context of the in-flight resolution. Factories use
// it to parent their own spans under the resolution span.
// Outside a factory it returns context.Background().
func ContextOf(r Resolver) context.Context {
	if res, ok := r.(*resolution); ok {
		return res.ctx
	}
	return context.Background()
}

// stack holds the type identifiers currently being resolved, oldest first.
// A resolution and its nested calls run on one goroutine while holding the
// tree's resolve lock; factories must not resolve from goroutines they start.
type stack struct {
	frames []reflect.Type
}

func (s *stack) contains(t reflect.Type) bool {
	return slices.Contains(s.frames, t)
}

func (s *stack) push(t reflect.Type) {
	s.frames = append(s.frames, t)
}

func (s *stack) pop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

func (s *stack) depth() int { return len(s.frames) }

// trace renders the stack followed by the offending type.
func (s *stack) trace(offender reflect.Type) []string {
	out := make([]string, 0, len(s.frames)+1)
	for _, t := range s.frames {
		out = append(out, typeName(t))
	}
	return append(out, typeName(offender))
}
