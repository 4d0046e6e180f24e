package di

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"testing"
)

type (
	cycleA struct{ b *cycleB }
	cycleB struct{ a *cycleA }
	cycleC struct{}
)

func registerCycle(t *testing.T, c *Container, wrap bool) *int {
	t.Helper()
	aCalls := new(int)
	mustRegister(t, Register(c, func(r Resolver) (*cycleA, error) {
		*aCalls++
		b, err := Resolve[*cycleB](r)
		if err != nil {
			if wrap {
				return nil, fmt.Errorf("building A: %w", err)
			}
			return nil, err
		}
		return &cycleA{b: b}, nil
	}))
	mustRegister(t, Register(c, func(r Resolver) (*cycleB, error) {
		a, err := Resolve[*cycleA](r)
		if err != nil {
			return nil, err
		}
		return &cycleB{a: a}, nil
	}))
	return aCalls
}

func TestCircularDependency(t *testing.T) {
	c := newTestContainer(nil)
	aCalls := registerCycle(t, c, false)

	_, err := Resolve[*cycleA](c)
	if !stderrors.Is(err, ErrCircularDependency) {
		t.Fatalf("expected circular dependency, got %v", err)
	}

	want := []string{"*di.cycleA", "*di.cycleB", "*di.cycleA"}
	if got := CycleTrace(err); !reflect.DeepEqual(got, want) {
		t.Errorf("expected trace %v, got %v", want, got)
	}
	if *aCalls != 1 {
		t.Errorf("expected A's factory to run once before the cycle fired, ran %d", *aCalls)
	}
}

func TestCircularDependencyWrappedByFactory(t *testing.T) {
	c := newTestContainer(nil)
	registerCycle(t, c, true)

	_, err := Resolve[*cycleA](c)
	if !stderrors.Is(err, ErrResolutionFailed) {
		t.Fatalf("expected resolution failed wrapper, got %v", err)
	}
	if !stderrors.Is(err, ErrCircularDependency) {
		t.Error("expected cycle to remain reachable")
	}
	if trace := CycleTrace(err); len(trace) != 3 {
		t.Errorf("expected trace through wrapper, got %v", trace)
	}
}

func TestSelfDependency(t *testing.T) {
	c := newTestContainer(nil)
	mustRegister(t, Register(c, func(r Resolver) (*cycleC, error) {
		_, err := Resolve[*cycleC](r)
		return &cycleC{}, err
	}, AsSingleton()))

	_, err := Resolve[*cycleC](c)
	want := []string{"*di.cycleC", "*di.cycleC"}
	if got := CycleTrace(err); !reflect.DeepEqual(got, want) {
		t.Errorf("expected trace %v, got %v", want, got)
	}
}

func TestStackRestoredAfterFailure(t *testing.T) {
	c := newTestContainer(nil)
	fail := true
	mustRegister(t, Register(c, func(Resolver) (*cycleC, error) {
		if fail {
			return nil, errFactory
		}
		return &cycleC{}, nil
	}))

	if _, err := Resolve[*cycleC](c); !stderrors.Is(err, errFactory) {
		t.Fatalf("expected factory failure, got %v", err)
	}

	fail = false
	if _, err := Resolve[*cycleC](c); err != nil {
		t.Errorf("expected second resolution to succeed, got %v", err)
	}
}

func TestSameTypeTwiceIsNotACycle(t *testing.T) {
	c := newTestContainer(nil)
	mustRegister(t, RegisterInstance(c, &Database{}))
	mustRegister(t, Register(c, func(r Resolver) ([]*Database, error) {
		a, err := Resolve[*Database](r)
		if err != nil {
			return nil, err
		}
		b, err := Resolve[*Database](r)
		if err != nil {
			return nil, err
		}
		return []*Database{a, b}, nil
	}))

	if _, err := Resolve[[]*Database](c); err != nil {
		t.Errorf("sequential resolutions of one type must not be a cycle: %v", err)
	}
}

func TestResolveAllDetectsCycle(t *testing.T) {
	c := newTestContainer(nil)
	mustRegister(t, Register(c, func(r Resolver) (Greeter, error) {
		_, err := ResolveAll[Greeter](r)
		return englishGreeter{}, err
	}))

	_, err := ResolveAll[Greeter](c)
	if !stderrors.Is(err, ErrCircularDependency) {
		t.Errorf("expected circular dependency, got %v", err)
	}
}
