package hilt

import (
	"context"

	"github.com/danpasecinic/hilt/internal/container"
	hreflect "github.com/danpasecinic/hilt/internal/reflect"
)

// Resolver is the lookup surface handed to factories. *Container implements it.
type Resolver = container.Resolver

var _ Resolver = (*Container)(nil)

// Resolve returns the T bound under the given qualifier. A nil instance yields
// the zero T.
func Resolve[T any](ctx context.Context, r Resolver, opts ...BindingOption) (T, error) {
	var zero T

	k, err := bindingKey[T](newBindingConfig(opts))
	if err != nil {
		return zero, err
	}

	instance, err := r.Resolve(ctx, k)
	if err != nil {
		return zero, translate(err)
	}
	return cast[T](k, instance)
}

// MustResolve is Resolve for composition roots: a missing binding or a cycle is
// a wiring bug, so it panics with the *Error.
func MustResolve[T any](ctx context.Context, r Resolver, opts ...BindingOption) T {
	v, err := Resolve[T](ctx, r, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// ResolveOptional is Resolve that reports a missing binding for T as an empty
// Optional. Every other failure, including a missing dependency of T and a
// cycle, is returned.
func ResolveOptional[T any](ctx context.Context, r Resolver, opts ...BindingOption) (Optional[T], error) {
	k, err := bindingKey[T](newBindingConfig(opts))
	if err != nil {
		return None[T](), err
	}

	instance, err := r.Resolve(ctx, k)
	if err != nil {
		if isNotFoundFor(err, k) {
			return None[T](), nil
		}
		return None[T](), translate(err)
	}

	v, err := cast[T](k, instance)
	if err != nil {
		return None[T](), err
	}
	return Some(v), nil
}

// ResolveMany returns every contribution for T across the ancestor chain, root
// first. It returns an empty slice when nothing contributes.
func ResolveMany[T any](ctx context.Context, r Resolver, opts ...BindingOption) ([]T, error) {
	k, err := bindingKey[T](newBindingConfig(opts))
	if err != nil {
		return nil, err
	}

	instances, err := r.ResolveMany(ctx, k)
	if err != nil {
		return nil, translate(err)
	}

	out := make([]T, 0, len(instances))
	for _, instance := range instances {
		v, err := cast[T](k, instance)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Has reports whether Resolve[T] with the same options would find a provider.
// Contributions made with RegisterMany are reported by HasMany instead.
func Has[T any](r Resolver, opts ...BindingOption) bool {
	k, err := bindingKey[T](newBindingConfig(opts))
	if err != nil {
		return false
	}
	return r.Has(k)
}

// HasMany reports whether ResolveMany[T] would return at least one instance.
func HasMany[T any](r Resolver, opts ...BindingOption) bool {
	k, err := bindingKey[T](newBindingConfig(opts))
	if err != nil {
		return false
	}
	return r.HasMany(k)
}

func cast[T any](k Key, instance any) (T, error) {
	var zero T
	if hreflect.IsNil(instance) {
		return zero, nil
	}
	v, ok := instance.(T)
	if !ok {
		return zero, errTypeMismatch(k, instance)
	}
	return v, nil
}

type Optional[T any] struct {
	value   T
	present bool
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) Value() T {
	return o.value
}

func (o Optional[T]) Present() bool {
	return o.present
}

func (o Optional[T]) OrElse(defaultValue T) T {
	if o.present {
		return o.value
	}
	return defaultValue
}

func (o Optional[T]) OrElseFunc(fn func() T) T {
	if o.present {
		return o.value
	}
	return fn()
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}
