package di

// Scope is a handle over a child container that bounds the lifetime of
// Scoped instances. It resolves like any Resolver; registrations made on
// Container() shadow the parent for resolutions started in this scope.
type Scope struct {
	container *Container
}

func (s *Scope) begin() *resolution { return s.container.begin() }

// Container returns the child container backing the scope.
func (s *Scope) Container() *Container { return s.container }

// ID returns the identifier of the backing container.
func (s *Scope) ID() string { return s.container.id }

// CreateScope creates a nested scope whose parent is this scope.
func (s *Scope) CreateScope() (*Scope, error) {
	return s.container.CreateScope()
}

// Dispose tears the scope down. Sibling scopes and the parent are unaffected.
func (s *Scope) Dispose() { s.container.Dispose() }

// IsDisposed reports whether the scope has been disposed.
func (s *Scope) IsDisposed() bool { return s.container.IsDisposed() }
