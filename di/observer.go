package di

import "context"

// ResolveEvent describes one resolution attempt.
type ResolveEvent struct {
	ContainerID string
	Container   string
	Type        string
	Key         string
	// Depth is 1 for a top-level resolution and grows with nesting.
	Depth int
}

// Observer is called around every resolution, including nested ones and
// each element of ResolveAll. The returned context is handed to the
// factory's nested resolutions; the returned func receives the outcome.
type Observer interface {
	OnResolve(ctx context.Context, ev ResolveEvent) (context.Context, func(err error))
}
