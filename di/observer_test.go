package di

import (
	"context"
	"sync"
	"testing"

	"github.com/kbukum/scopekit/logger"
)

type ctxKey struct{}

type recordingObserver struct {
	mu       sync.Mutex
	events   []ResolveEvent
	outcomes []error
}

func (o *recordingObserver) OnResolve(ctx context.Context, ev ResolveEvent) (context.Context, func(error)) {
	o.mu.Lock()
	o.events = append(o.events, ev)
	o.mu.Unlock()

	return context.WithValue(ctx, ctxKey{}, ev.Type), func(err error) {
		o.mu.Lock()
		o.outcomes = append(o.outcomes, err)
		o.mu.Unlock()
	}
}

func TestObserverSeesNestedResolutions(t *testing.T) {
	obs := &recordingObserver{}
	c := New(WithLogger(logger.NewNop()), WithObserver(obs))

	var parentType any
	mustRegister(t, Register(c, func(r Resolver) (*Database, error) {
		parentType = ContextOf(r).Value(ctxKey{})
		return &Database{}, nil
	}))
	mustRegister(t, Register(c, func(r Resolver) (*Repository, error) {
		db, err := Resolve[*Database](r)
		return &Repository{DB: db}, err
	}))

	scope, err := c.CreateScope()
	if err != nil {
		t.Fatalf("CreateScope failed: %v", err)
	}
	defer scope.Dispose()

	MustResolve[*Repository](scope)

	if len(obs.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(obs.events))
	}
	if obs.events[0].Type != "*di.Repository" || obs.events[0].Depth != 1 {
		t.Errorf("unexpected outer event: %+v", obs.events[0])
	}
	if obs.events[1].Type != "*di.Database" || obs.events[1].Depth != 2 {
		t.Errorf("unexpected nested event: %+v", obs.events[1])
	}
	if obs.events[0].ContainerID != scope.ID() {
		t.Error("expected events attributed to the requesting scope")
	}
	if parentType != "*di.Database" {
		t.Errorf("expected factory to receive the observer context, got %v", parentType)
	}
	for i, err := range obs.outcomes {
		if err != nil {
			t.Errorf("outcome %d: unexpected error %v", i, err)
		}
	}
}

func TestObserverReceivesFailures(t *testing.T) {
	obs := &recordingObserver{}
	c := New(WithLogger(logger.NewNop()), WithObserver(obs))

	if _, err := Resolve[*Database](c); err == nil {
		t.Fatal("expected resolution to fail")
	}
	if len(obs.outcomes) != 1 || obs.outcomes[0] == nil {
		t.Errorf("expected failure reported to observer, got %v", obs.outcomes)
	}
}

func TestContextOfContainer(t *testing.T) {
	c := newTestContainer(nil)
	if ContextOf(c) == nil {
		t.Error("expected a background context outside a resolution")
	}
}
