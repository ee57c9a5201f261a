package benchmark

import (
	"context"
	"testing"

	"github.com/samber/do/v2"
	"go.uber.org/dig"
	"go.uber.org/fx"

	"github.com/danpasecinic/hilt"
)

func BenchmarkInvoke_Singleton_Hilt(b *testing.B) {
	ctx := context.Background()
	c := hilt.New()
	_ = hilt.RegisterValue(c, newConfig())

	b.ReportAllocs()
	for b.Loop() {
		_, _ = hilt.Resolve[*Config](ctx, c)
	}
}

func BenchmarkInvoke_Singleton_Do(b *testing.B) {
	injector := do.New()
	do.ProvideValue(injector, newConfig())
	_ = do.MustInvoke[*Config](injector)

	b.ReportAllocs()
	for b.Loop() {
		_ = do.MustInvoke[*Config](injector)
	}
}

func BenchmarkInvoke_Singleton_Dig(b *testing.B) {
	c := dig.New()
	_ = c.Provide(newConfig)
	_ = c.Invoke(func(*Config) {})

	b.ReportAllocs()
	for b.Loop() {
		_ = c.Invoke(func(*Config) {})
	}
}

func BenchmarkInvoke_Chain_Hilt(b *testing.B) {
	ctx := context.Background()
	c := newHiltChain()
	_ = c.PrewarmSingletons(ctx)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = hilt.Resolve[*Service](ctx, c)
	}
}

func BenchmarkInvoke_Chain_HiltAutowire(b *testing.B) {
	ctx := context.Background()
	c := newHiltAutowiredChain()
	_ = c.PrewarmSingletons(ctx)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = hilt.Resolve[*Service](ctx, c)
	}
}

func BenchmarkInvoke_Chain_Do(b *testing.B) {
	injector := newDoChain()
	_ = do.MustInvoke[*Service](injector)

	b.ReportAllocs()
	for b.Loop() {
		_ = do.MustInvoke[*Service](injector)
	}
}

func BenchmarkInvoke_Chain_Dig(b *testing.B) {
	c := newDigChain()
	_ = c.Invoke(func(*Service) {})

	b.ReportAllocs()
	for b.Loop() {
		_ = c.Invoke(func(*Service) {})
	}
}

// Cold builds a fresh graph every iteration so factories actually run.
func BenchmarkInvoke_Cold_Hilt(b *testing.B) {
	ctx := context.Background()
	b.ReportAllocs()
	for b.Loop() {
		_, _ = hilt.Resolve[*Service](ctx, newHiltChain())
	}
}

func BenchmarkInvoke_Cold_Do(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = do.MustInvoke[*Service](newDoChain())
	}
}

func BenchmarkInvoke_Cold_Dig(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = newDigChain().Invoke(func(*Service) {})
	}
}

func BenchmarkInvoke_Cold_Fx(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		var svc *Service
		_ = fx.New(fx.NopLogger, fxChain(), fx.Populate(&svc))
	}
}
