package di

import "fmt"

// Lifetime determines how long a resolved instance is reused.
type Lifetime int

const (
	Transient Lifetime = iota // New instance per resolution, never cached
	Singleton                 // One instance per registration, cached on the registration
	Scoped                    // One instance per resolving container
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "Transient"
	case Singleton:
		return "Singleton"
	case Scoped:
		return "Scoped"
	default:
		return fmt.Sprintf("Lifetime(%d)", int(l))
	}
}

func (l Lifetime) valid() bool {
	return l >= Transient && l <= Scoped
}
