package container

import (
	"context"
	"errors"

	"github.com/danpasecinic/hilt/internal/lifetime"
)

// PrewarmSingletons resolves every singleton registered in this container, in
// registration order. It goes through the ordinary resolution path, so running
// it alongside other resolutions never builds a singleton twice. All failures
// are returned together.
func (c *Container) PrewarmSingletons(ctx context.Context) error {
	keys := c.registry.KeysWithLifetime(lifetime.Singleton)

	var errs []error
	for _, k := range keys {
		if _, err := c.Resolve(ctx, k); err != nil {
			c.logger.Debug("prewarm failed", "key", k.String(), "error", err)
			errs = append(errs, err)
		}
	}

	c.logger.Debug("prewarmed singletons", "count", len(keys), "failed", len(errs))
	return errors.Join(errs...)
}
