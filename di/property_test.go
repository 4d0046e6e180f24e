package di

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

type counted struct{ n int }

// TestLifetimeProperties checks the caching contract of every lifetime for
// arbitrary resolution counts.
func TestLifetimeProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lifetime := rapid.SampledFrom([]Lifetime{Transient, Singleton, Scoped}).Draw(rt, "lifetime")
		resolves := rapid.IntRange(1, 20).Draw(rt, "resolves")

		c := newTestContainer(nil)
		calls := 0
		if err := Register(c, func(Resolver) (*counted, error) {
			calls++
			return &counted{n: calls}, nil
		}, WithLifetime(lifetime)); err != nil {
			rt.Fatalf("Register failed: %v", err)
		}

		seen := make(map[*counted]bool)
		for range resolves {
			v, err := Resolve[*counted](c)
			if err != nil {
				rt.Fatalf("Resolve failed: %v", err)
			}
			seen[v] = true
		}

		switch lifetime {
		case Transient:
			if calls != resolves || len(seen) != resolves {
				rt.Fatalf("transient: %d resolves, %d calls, %d distinct", resolves, calls, len(seen))
			}
		default:
			if calls != 1 || len(seen) != 1 {
				rt.Fatalf("%s: %d calls, %d distinct", lifetime, calls, len(seen))
			}
		}
	})
}

// TestScopedIsolationProperty checks that each scope owns exactly one
// instance and disposing any subset leaves the rest untouched.
func TestScopedIsolationProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		scopes := rapid.IntRange(2, 8).Draw(rt, "scopes")

		c := newTestContainer(nil)
		if err := Register(c, func(Resolver) (*counted, error) {
			return &counted{}, nil
		}, AsScoped()); err != nil {
			rt.Fatalf("Register failed: %v", err)
		}

		handles := make([]*Scope, scopes)
		instances := make([]*counted, scopes)
		for i := range handles {
			s, err := c.CreateScope()
			if err != nil {
				rt.Fatalf("CreateScope failed: %v", err)
			}
			handles[i] = s
			instances[i] = MustResolve[*counted](s)
		}

		for i := range instances {
			for j := i + 1; j < len(instances); j++ {
				if instances[i] == instances[j] {
					rt.Fatalf("scopes %d and %d share an instance", i, j)
				}
			}
		}

		disposed := rapid.SliceOfDistinct(rapid.IntRange(0, scopes-1), rapid.ID[int]).Draw(rt, "disposed")
		gone := make(map[int]bool)
		for _, i := range disposed {
			handles[i].Dispose()
			gone[i] = true
		}

		for i, s := range handles {
			if gone[i] {
				continue
			}
			if MustResolve[*counted](s) != instances[i] {
				rt.Fatalf("scope %d lost its instance after sibling disposal", i)
			}
			s.Dispose()
		}
		c.Dispose()
	})
}

// TestDecoratorCompositionProperty checks that decorators compose in
// registration order.
func TestDecoratorCompositionProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,4}`), 0, 6).Draw(rt, "decorators")

		c := newTestContainer(nil)
		if err := RegisterInstance(c, "x"); err != nil {
			rt.Fatalf("RegisterInstance failed: %v", err)
		}

		want := "x"
		for _, name := range names {
			if err := AddDecorator(c, func(v string) (string, error) {
				return fmt.Sprintf("%s(%s)", name, v), nil
			}); err != nil {
				rt.Fatalf("AddDecorator failed: %v", err)
			}
			want = fmt.Sprintf("%s(%s)", name, want)
		}

		if got := MustResolve[string](c); got != want {
			rt.Fatalf("expected %q, got %q", want, got)
		}
	})
}

// TestDisposeProperty checks that any number of Dispose calls closes each
// owned value exactly once.
func TestDisposeProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(0, 10).Draw(rt, "resources")
		disposals := rapid.IntRange(1, 4).Draw(rt, "disposals")

		c := newTestContainer(nil)
		resources := make([]*resource, count)
		for i := range resources {
			resources[i] = newResource(fmt.Sprintf("r%d", i), nil)
			r := resources[i]
			if err := Register(c, func(Resolver) (*resource, error) {
				return r, nil
			}, AsSingleton(), WithKey(r.name)); err != nil {
				rt.Fatalf("Register failed: %v", err)
			}
			if _, err := ResolveKeyed[*resource](c, r.name); err != nil {
				rt.Fatalf("ResolveKeyed failed: %v", err)
			}
		}

		for range disposals {
			c.Dispose()
		}
		for _, r := range resources {
			if r.closes != 1 {
				rt.Fatalf("%s closed %d times", r.name, r.closes)
			}
		}
	})
}
