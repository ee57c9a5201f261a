package container

import (
	"context"

	"github.com/danpasecinic/hilt/internal/key"
)

// Resolver is what a factory receives to build its dependencies.
//
//go:generate mockgen -source=resolver.go -destination=../mocks/mock_resolver.go -package=mocks
type Resolver interface {
	Resolve(ctx context.Context, k key.Key) (any, error)
	ResolveMany(ctx context.Context, k key.Key) ([]any, error)
	Has(k key.Key) bool
	HasMany(k key.Key) bool
}

// Factory builds an instance. r is the container that performed the resolution.
// Nested resolutions should go through ctx so they join the caller's chain for
// cycle detection and recording. A factory that resolves its own key through an
// unrelated context waits on itself forever.
type Factory func(ctx context.Context, r Resolver) (any, error)
