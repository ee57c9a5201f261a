package container

import (
	"strings"

	"github.com/danpasecinic/hilt/internal/key"
)

// NotFoundError reports that no container in the ancestor chain provides Key.
type NotFoundError struct {
	Key key.Key
}

func (e *NotFoundError) Error() string {
	return "no provider found for " + e.Key.String()
}

// CycleError reports a key re-requested while it was still being built. Path
// runs from the first occurrence of the key to its re-entry.
type CycleError struct {
	Path []key.Key
}

func (e *CycleError) Error() string {
	return "cyclic dependency detected: " + FormatPath(e.Path)
}

// ProviderError wraps a failure returned by the factory of Key.
type ProviderError struct {
	Key key.Key
	Err error
}

func (e *ProviderError) Error() string {
	return "provider for " + e.Key.String() + " failed: " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func FormatPath(path []key.Key) string {
	parts := make([]string, len(path))
	for i, k := range path {
		parts[i] = k.String()
	}
	return strings.Join(parts, " -> ")
}
