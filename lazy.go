package hilt

import (
	"context"
	"sync"
)

// Provider defers resolution of T until Get and resolves anew on every call,
// so the binding's lifetime decides whether callers share an instance.
type Provider[T any] struct {
	resolver Resolver
	opts     []BindingOption
}

func NewProvider[T any](r Resolver, opts ...BindingOption) Provider[T] {
	return Provider[T]{resolver: r, opts: opts}
}

func (p Provider[T]) Get(ctx context.Context) (T, error) {
	return Resolve[T](ctx, p.resolver, p.opts...)
}

func (p Provider[T]) MustGet(ctx context.Context) T {
	return MustResolve[T](ctx, p.resolver, p.opts...)
}

// Lazy resolves T on the first successful Get and returns the same value
// afterwards. A failed resolution is retried on the next Get.
type Lazy[T any] struct {
	provider Provider[T]

	mu    sync.Mutex
	value T
	done  bool
}

func NewLazy[T any](r Resolver, opts ...BindingOption) *Lazy[T] {
	return &Lazy[T]{provider: NewProvider[T](r, opts...)}
}

func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return l.value, nil
	}

	v, err := l.provider.Get(ctx)
	if err != nil {
		return v, err
	}
	l.value = v
	l.done = true
	return v, nil
}

func (l *Lazy[T]) Resolved() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}
