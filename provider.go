package hilt

import (
	"context"

	"github.com/danpasecinic/hilt/internal/container"
	"github.com/danpasecinic/hilt/internal/key"
	"github.com/danpasecinic/hilt/internal/lifetime"
)

// Factory builds a T. Dependencies must be resolved through r using ctx.
type Factory[T any] func(ctx context.Context, r Resolver) (T, error)

type BindingOption func(*bindingConfig)

type bindingConfig struct {
	qualifier any
	lifetime  lifetime.Lifetime
}

func newBindingConfig(opts []BindingOption) *bindingConfig {
	cfg := &bindingConfig{lifetime: lifetime.Singleton}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func bindingKey[T any](cfg *bindingConfig) (Key, error) {
	k, err := key.Of[T](cfg.qualifier)
	if err != nil {
		return Key{}, errInvalidQualifier(err)
	}
	return k, nil
}

// WithQualifier distinguishes bindings of the same type. Any comparable value works.
func WithQualifier(qualifier any) BindingOption {
	return func(cfg *bindingConfig) {
		cfg.qualifier = qualifier
	}
}

// WithName is WithQualifier(Named(name)).
func WithName(name string) BindingOption {
	return WithQualifier(Named(name))
}

// WithLifetime sets the caching policy. Registrations default to Singleton.
// Resolution ignores it.
func WithLifetime(l Lifetime) BindingOption {
	return func(cfg *bindingConfig) {
		cfg.lifetime = l
	}
}

// Register binds T to factory in c, replacing any earlier binding of the same
// key and evicting the instance c cached for it.
func Register[T any](c *Container, factory Factory[T], opts ...BindingOption) error {
	cfg := newBindingConfig(opts)
	k, err := bindingKey[T](cfg)
	if err != nil {
		return err
	}

	c.internal.Register(k, cfg.lifetime, wrap(factory))
	return nil
}

// RegisterValue binds T to an existing value as a singleton.
func RegisterValue[T any](c *Container, value T, opts ...BindingOption) error {
	opts = append(opts, WithLifetime(Singleton))
	return Register(c, func(context.Context, Resolver) (T, error) {
		return value, nil
	}, opts...)
}

// RegisterMany appends a contribution to the multibinding for T. Contributions
// accumulate and are rebuilt on every ResolveMany.
func RegisterMany[T any](c *Container, factory Factory[T], opts ...BindingOption) error {
	cfg := newBindingConfig(opts)
	k, err := bindingKey[T](cfg)
	if err != nil {
		return err
	}

	c.internal.RegisterMany(k, wrap(factory))
	return nil
}

func MustRegister[T any](c *Container, factory Factory[T], opts ...BindingOption) {
	if err := Register(c, factory, opts...); err != nil {
		panic(err)
	}
}

func wrap[T any](factory Factory[T]) container.Factory {
	return func(ctx context.Context, r container.Resolver) (any, error) {
		return factory(ctx, r)
	}
}
