package hilt

import (
	"context"

	"github.com/danpasecinic/hilt/internal/container"
	"github.com/danpasecinic/hilt/internal/key"
)

// Bind makes I resolve to the unqualified binding of T. The alias is transient:
// caching follows T's own lifetime. Options qualify I only.
func Bind[I, T any](c *Container, opts ...BindingOption) error {
	cfg := newBindingConfig(opts)
	interfaceKey, err := bindingKey[I](cfg)
	if err != nil {
		return err
	}
	implKey := key.For[T]()

	c.internal.Register(interfaceKey, Transient, func(ctx context.Context, r container.Resolver) (any, error) {
		instance, err := r.Resolve(ctx, implKey)
		if err != nil {
			return nil, err
		}
		if _, ok := instance.(I); !ok {
			return nil, errTypeMismatch(interfaceKey, instance)
		}
		return instance, nil
	})
	return nil
}

func BindNamed[I, T any](c *Container, name string, opts ...BindingOption) error {
	return Bind[I, T](c, append(opts, WithName(name))...)
}
