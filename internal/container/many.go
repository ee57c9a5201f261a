package container

import (
	"context"
	"slices"

	"github.com/danpasecinic/hilt/internal/key"
)

// ResolveMany builds every contribution for k across the ancestor chain, root
// first. Each container contributes only its own list. Contributions are built
// with c as resolver and are never cached. When recording, the aggregator node
// for k stands between the consumer and k.
func (c *Container) ResolveMany(ctx context.Context, k key.Key) ([]any, error) {
	t := traceFrom(ctx)
	agg := k.Collection()

	if t.contains(agg) {
		return nil, &CycleError{Path: t.cycle(agg)}
	}

	c.record(t, agg)
	inner := t.push(agg, nil)
	c.record(inner, k)

	chain := c.chain()
	slices.Reverse(chain)

	buildCtx := inner.into(ctx)
	out := []any{}
	for _, cur := range chain {
		for _, factory := range cur.registry.Many(k) {
			instance, err := factory(buildCtx, c)
			if err != nil {
				return nil, &ProviderError{Key: agg, Err: err}
			}
			out = append(out, instance)
		}
	}

	return out, nil
}
