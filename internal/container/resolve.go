package container

import (
	"context"
	"errors"
	"time"

	"github.com/danpasecinic/hilt/internal/key"
	"github.com/danpasecinic/hilt/internal/lifetime"
)

// Resolve returns the instance bound to k, building it if needed. Singleton
// and scoped builds are shared per target cache and entry, so concurrent
// callers wait for one factory call instead of racing. No lock is held while a
// factory runs.
func (c *Container) Resolve(ctx context.Context, k key.Key) (any, error) {
	start := time.Now()
	instance, err := c.resolve(ctx, k)
	c.callResolveHooks(k, time.Since(start), err)
	return instance, err
}

func (c *Container) callResolveHooks(k key.Key, duration time.Duration, err error) {
	for _, hook := range c.onResolve {
		hook(k, duration, err)
	}
}

func (c *Container) resolve(ctx context.Context, k key.Key) (any, error) {
	t := traceFrom(ctx)

	if instance, ok := c.cache.Get(k); ok {
		c.record(t, k)
		return instance, nil
	}

	owner, entry := c.lookup(k)
	if entry == nil {
		return nil, &NotFoundError{Key: k}
	}

	target := c
	if entry.Lifetime == lifetime.Singleton {
		target = owner
	}
	if target != c {
		if instance, ok := target.cache.Get(k); ok {
			c.record(t, k)
			return instance, nil
		}
	}

	if t.contains(k) {
		return nil, &CycleError{Path: t.cycle(k)}
	}

	c.record(t, k)

	if entry.Lifetime == lifetime.Transient {
		instance, err := c.build(t.push(k, nil).into(ctx), entry)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("built instance", "key", k.String(), "lifetime", entry.Lifetime.String())
		return instance, nil
	}

	fk := flightKey{target: target, entry: entry}
	if from, ok := t.flight(); ok {
		if path, cyclic := c.waits.wait(from, fk); cyclic {
			return nil, &CycleError{Path: path}
		}
		defer c.waits.done(from, fk)
	}

	instance, err, _ := target.flights.Do(entry.id, func() (any, error) {
		if instance, ok := target.cache.Get(k); ok {
			return instance, nil
		}

		epoch := target.epoch.Load()
		instance, err := c.build(t.push(k, &fk).into(ctx), entry)
		if err != nil {
			return nil, err
		}

		if target.commit(owner, entry, epoch, instance) {
			c.logger.Debug("built instance", "key", k.String(), "lifetime", entry.Lifetime.String())
		} else {
			c.logger.Debug("discarded stale instance", "key", k.String())
		}
		return instance, nil
	})
	return instance, err
}

// build runs the factory for entry with c as resolver.
func (c *Container) build(ctx context.Context, entry *ProviderEntry) (any, error) {
	instance, err := entry.Factory(ctx, c)
	if err != nil {
		var cycle *CycleError
		if errors.As(err, &cycle) {
			return nil, cycle
		}
		return nil, &ProviderError{Key: entry.Key, Err: err}
	}
	return instance, nil
}

// commit caches instance in c unless c's cache was cleared or owner replaced
// entry since the build started.
func (c *Container) commit(owner *Container, entry *ProviderEntry, epoch uint64, instance any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch.Load() != epoch {
		return false
	}
	if current, ok := owner.registry.Get(entry.Key); !ok || current != entry {
		return false
	}
	c.cache.Set(entry.Key, instance)
	return true
}

// lookup finds the nearest container, starting at c, that provides k.
func (c *Container) lookup(k key.Key) (*Container, *ProviderEntry) {
	for _, cur := range c.chain() {
		if entry, ok := cur.registry.Get(k); ok {
			return cur, entry
		}
	}
	return nil, nil
}
