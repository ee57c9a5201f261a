package hilt

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danpasecinic/hilt/internal/container"
)

// Container is a node in a tree of containers. Lookups that miss locally fall
// through to the parent. A child does not keep its parent alive, so the caller
// must hold the root (and any intermediate container) for as long as children
// resolve through it.
type Container struct {
	internal *container.Container
	config   *containerConfig
}

type containerConfig struct {
	logger     *slog.Logger
	onResolve  []ResolveHook
	onRegister []RegisterHook
	record     bool
}

func New(opts ...Option) *Container {
	cfg := &containerConfig{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	internalCfg := &container.Config{Logger: cfg.logger}
	for _, h := range cfg.onResolve {
		internalCfg.OnResolve = append(internalCfg.OnResolve, h.internal())
	}
	for _, h := range cfg.onRegister {
		internalCfg.OnRegister = append(internalCfg.OnRegister, h.internal())
	}

	c := &Container{
		internal: container.New(internalCfg),
		config:   cfg,
	}
	if cfg.record {
		c.internal.StartRecording()
	}
	return c
}

// Child returns an empty container whose lookups fall through to c. It inherits
// the logger and observers but not recording.
func (c *Container) Child() *Container {
	return &Container{
		internal: c.internal.Child(),
		config:   c.config,
	}
}

// Parent returns the parent container, or nil for a root.
func (c *Container) Parent() *Container {
	p := c.internal.Parent()
	if p == nil {
		return nil
	}
	return &Container{internal: p, config: c.config}
}

// ClearCache drops every instance cached in this container. Ancestors,
// descendants and registrations are untouched.
func (c *Container) ClearCache() {
	c.internal.ClearCache()
}

// PrewarmSingletons builds every singleton registered directly in c.
func (c *Container) PrewarmSingletons(ctx context.Context) error {
	return translateAll(c.internal.PrewarmSingletons(ctx))
}

func (c *Container) Size() int {
	return c.internal.Size()
}

// Keys lists the single bindings registered directly in c.
func (c *Container) Keys() []Key {
	return c.internal.Keys()
}

// Resolve implements Resolver.
func (c *Container) Resolve(ctx context.Context, k Key) (any, error) {
	instance, err := c.internal.Resolve(ctx, k)
	return instance, translate(err)
}

// ResolveMany implements Resolver.
func (c *Container) ResolveMany(ctx context.Context, k Key) ([]any, error) {
	instances, err := c.internal.ResolveMany(ctx, k)
	return instances, translate(err)
}

// Has implements Resolver.
func (c *Container) Has(k Key) bool {
	return c.internal.Has(k)
}

// HasMany implements Resolver.
func (c *Container) HasMany(k Key) bool {
	return c.internal.HasMany(k)
}

// translateAll maps each error of a joined error.
func translateAll(err error) error {
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return translate(err)
	}
	errs := joined.Unwrap()
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = translate(e)
	}
	return errors.Join(out...)
}
