// Package hilttest wraps a container with helpers that fail the test instead of
// returning errors.
package hilttest

import (
	"context"

	"github.com/danpasecinic/hilt"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

// TestContainer holds a strong reference to its parent, so children created
// through it stay usable for the whole test.
type TestContainer struct {
	*hilt.Container
	tb     TB
	parent *TestContainer
}

func New(tb TB, opts ...hilt.Option) *TestContainer {
	tb.Helper()

	c := hilt.New(opts...)
	tc := &TestContainer{
		Container: c,
		tb:        tb,
	}

	tb.Cleanup(c.ClearCache)

	return tc
}

func (tc *TestContainer) Child() *TestContainer {
	return &TestContainer{
		Container: tc.Container.Child(),
		tb:        tc.tb,
		parent:    tc,
	}
}

func (tc *TestContainer) RequirePrewarm(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.PrewarmSingletons(ctx); err != nil {
		tc.tb.Fatalf("failed to prewarm singletons: %v", err)
	}
}

func (tc *TestContainer) RequireHealthy(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.Live(ctx); err != nil {
		tc.tb.Fatalf("container is not healthy: %v", err)
	}
}

// RequirePlan orders the current recording and fails on a cycle or when
// recording was never started.
func (tc *TestContainer) RequirePlan() *hilt.Plan {
	tc.tb.Helper()

	p, err := tc.BuildPlan()
	if err != nil {
		tc.tb.Fatalf("failed to build plan: %v", err)
	}
	return p
}

// Replace rebinds T to value in tc and evicts the instance tc cached for it.
// Ancestors keep their own bindings.
func Replace[T any](tc *TestContainer, value T, opts ...hilt.BindingOption) {
	tc.tb.Helper()

	if err := hilt.RegisterValue(tc.Container, value, opts...); err != nil {
		tc.tb.Fatalf("failed to replace %s: %v", keyOf[T](opts), err)
	}
}

func ReplaceNamed[T any](tc *TestContainer, name string, value T) {
	tc.tb.Helper()

	Replace(tc, value, hilt.WithName(name))
}

func ReplaceFactory[T any](tc *TestContainer, factory hilt.Factory[T], opts ...hilt.BindingOption) {
	tc.tb.Helper()

	if err := hilt.Register(tc.Container, factory, opts...); err != nil {
		tc.tb.Fatalf("failed to replace factory %s: %v", keyOf[T](opts), err)
	}
}

func AssertHas[T any](tc *TestContainer, opts ...hilt.BindingOption) {
	tc.tb.Helper()

	if !hilt.Has[T](tc.Container, opts...) {
		tc.tb.Fatalf("expected container to have %s", keyOf[T](opts))
	}
}

func AssertHasNamed[T any](tc *TestContainer, name string) {
	tc.tb.Helper()

	AssertHas[T](tc, hilt.WithName(name))
}

func AssertNotHas[T any](tc *TestContainer, opts ...hilt.BindingOption) {
	tc.tb.Helper()

	if hilt.Has[T](tc.Container, opts...) {
		tc.tb.Fatalf("expected container to not have %s", keyOf[T](opts))
	}
}

func MustResolve[T any](tc *TestContainer, opts ...hilt.BindingOption) T {
	tc.tb.Helper()

	v, err := hilt.Resolve[T](context.Background(), tc.Container, opts...)
	if err != nil {
		tc.tb.Fatalf("failed to resolve %s: %v", keyOf[T](opts), err)
	}
	return v
}

func MustResolveNamed[T any](tc *TestContainer, name string) T {
	tc.tb.Helper()

	return MustResolve[T](tc, hilt.WithName(name))
}

func MustResolveMany[T any](tc *TestContainer, opts ...hilt.BindingOption) []T {
	tc.tb.Helper()

	v, err := hilt.ResolveMany[T](context.Background(), tc.Container, opts...)
	if err != nil {
		tc.tb.Fatalf("failed to resolve contributions of %s: %v", keyOf[T](opts), err)
	}
	return v
}

func MustRegister[T any](tc *TestContainer, factory hilt.Factory[T], opts ...hilt.BindingOption) {
	tc.tb.Helper()

	if err := hilt.Register(tc.Container, factory, opts...); err != nil {
		tc.tb.Fatalf("failed to register %s: %v", keyOf[T](opts), err)
	}
}

func MustRegisterValue[T any](tc *TestContainer, value T, opts ...hilt.BindingOption) {
	tc.tb.Helper()

	if err := hilt.RegisterValue(tc.Container, value, opts...); err != nil {
		tc.tb.Fatalf("failed to register value %s: %v", keyOf[T](opts), err)
	}
}

func MustRegisterMany[T any](tc *TestContainer, factory hilt.Factory[T], opts ...hilt.BindingOption) {
	tc.tb.Helper()

	if err := hilt.RegisterMany(tc.Container, factory, opts...); err != nil {
		tc.tb.Fatalf("failed to register contribution %s: %v", keyOf[T](opts), err)
	}
}

func MustApply(tc *TestContainer, modules ...*hilt.Module) {
	tc.tb.Helper()

	if err := tc.Apply(modules...); err != nil {
		tc.tb.Fatalf("failed to apply modules: %v", err)
	}
}

// keyOf renders the key for messages. An invalid qualifier renders as the bare
// type; the failing call reports the real error.
func keyOf[T any](opts []hilt.BindingOption) string {
	k, err := hilt.KeyWith[T](opts...)
	if err != nil {
		return hilt.KeyFor[T]().String()
	}
	return k.String()
}
