package lifetime

// Lifetime is the caching policy applied to a provider's instances.
type Lifetime int

const (
	// Singleton instances are cached in the container that owns the provider
	// and shared with all of its descendants.
	Singleton Lifetime = iota
	// Transient providers run on every resolution.
	Transient
	// Scoped instances are cached in the container that performed the resolution.
	Scoped
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	default:
		return "unknown"
	}
}
