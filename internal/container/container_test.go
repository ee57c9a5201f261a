package container

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/danpasecinic/hilt/internal/key"
	"github.com/danpasecinic/hilt/internal/lifetime"
)

type (
	serviceA struct{ id int64 }
	serviceB struct{ a *serviceA }
	serviceC struct{ b *serviceB }
	plugin   interface{ Name() string }
	pluginX  struct{}
	pluginY  struct{}
)

func (pluginX) Name() string { return "x" }
func (pluginY) Name() string { return "y" }

var (
	keyA      = key.For[*serviceA]()
	keyB      = key.For[*serviceB]()
	keyC      = key.For[*serviceC]()
	keyPlugin = key.For[plugin]()
)

func mustKey[T any](t *testing.T, q any) key.Key {
	t.Helper()
	k, err := key.Of[T](q)
	require.NoError(t, err)
	return k
}

func counting(counter *atomic.Int64) Factory {
	return func(context.Context, Resolver) (any, error) {
		return &serviceA{id: counter.Add(1)}, nil
	}
}

func value(v any) Factory {
	return func(context.Context, Resolver) (any, error) {
		return v, nil
	}
}

func newContainer() *Container {
	return New(&Config{})
}

func TestContainer_SingletonBuiltOnce(t *testing.T) {
	t.Parallel()

	c := newContainer()
	var calls atomic.Int64
	c.Register(keyA, lifetime.Singleton, counting(&calls))

	ctx := context.Background()
	first, err := c.Resolve(ctx, keyA)
	require.NoError(t, err)
	second, err := c.Resolve(ctx, keyA)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), calls.Load())
}

func TestContainer_SingletonConcurrent(t *testing.T) {
	t.Parallel()

	root := newContainer()
	middle := root.Child()
	children := []*Container{root, middle, root.Child(), middle.Child()}

	var calls atomic.Int64
	root.Register(keyA, lifetime.Singleton, func(context.Context, Resolver) (any, error) {
		time.Sleep(time.Millisecond)
		return &serviceA{id: calls.Add(1)}, nil
	})

	const n = 200
	results := make([]any, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			instance, err := children[i%len(children)].Resolve(context.Background(), keyA)
			assert.NoError(t, err)
			results[i] = instance
		})
	}
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	runtime.KeepAlive(root)
	runtime.KeepAlive(middle)
}

func TestContainer_SingletonCachedAtOwner(t *testing.T) {
	t.Parallel()

	parent := newContainer()
	var calls atomic.Int64
	parent.Register(keyA, lifetime.Singleton, counting(&calls))

	child := parent.Child()
	fromChild, err := child.Resolve(context.Background(), keyA)
	require.NoError(t, err)
	fromParent, err := parent.Resolve(context.Background(), keyA)
	require.NoError(t, err)

	assert.Same(t, fromChild, fromParent)
	assert.Empty(t, child.Cached())
	assert.Len(t, parent.Cached(), 1)
	assert.Equal(t, int64(1), calls.Load())
}

func TestContainer_ScopedPerContainer(t *testing.T) {
	t.Parallel()

	parent := newContainer()
	var calls atomic.Int64
	parent.Register(keyA, lifetime.Scoped, counting(&calls))

	ctx := context.Background()
	a, err := parent.Resolve(ctx, keyA)
	require.NoError(t, err)

	left, right := parent.Child(), parent.Child()
	l1, err := left.Resolve(ctx, keyA)
	require.NoError(t, err)
	l2, err := left.Resolve(ctx, keyA)
	require.NoError(t, err)
	r1, err := right.Resolve(ctx, keyA)
	require.NoError(t, err)

	assert.Same(t, l1, l2)
	assert.NotSame(t, l1, r1)
	assert.NotSame(t, a, l1)
	assert.Equal(t, int64(3), calls.Load())
	runtime.KeepAlive(parent)
}

func TestContainer_ScopedConcurrentSiblings(t *testing.T) {
	t.Parallel()

	parent := newContainer()
	var calls atomic.Int64
	parent.Register(keyA, lifetime.Scoped, counting(&calls))

	siblings := []*Container{parent.Child(), parent.Child()}
	results := make([][]any, len(siblings))
	var wg sync.WaitGroup
	for i, s := range siblings {
		results[i] = make([]any, 50)
		for j := range 50 {
			wg.Go(func() {
				instance, err := s.Resolve(context.Background(), keyA)
				assert.NoError(t, err)
				results[i][j] = instance
			})
		}
	}
	wg.Wait()

	for i := range siblings {
		for _, r := range results[i] {
			assert.Same(t, results[i][0], r)
		}
	}
	assert.NotSame(t, results[0][0], results[1][0])
	assert.Equal(t, int64(2), calls.Load())
	runtime.KeepAlive(parent)
}

func TestContainer_Transient(t *testing.T) {
	t.Parallel()

	c := newContainer()
	var calls atomic.Int64
	c.Register(keyA, lifetime.Transient, counting(&calls))

	seen := make(map[any]bool)
	for range 5 {
		instance, err := c.Resolve(context.Background(), keyA)
		require.NoError(t, err)
		seen[instance] = true
	}

	assert.Len(t, seen, 5)
	assert.Equal(t, int64(5), calls.Load())
	assert.Empty(t, c.Cached())
}

func TestContainer_ReRegisterEvictsOwnCacheOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	parent := newContainer()
	child := parent.Child()
	parent.Register(keyA, lifetime.Singleton, value(&serviceA{id: 1}))
	child.Register(keyA, lifetime.Singleton, value(&serviceA{id: 2}))

	p, err := parent.Resolve(ctx, keyA)
	require.NoError(t, err)
	c, err := child.Resolve(ctx, keyA)
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.(*serviceA).id)

	child.Register(keyA, lifetime.Singleton, value(&serviceA{id: 3}))

	c, err = child.Resolve(ctx, keyA)
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.(*serviceA).id)

	again, err := parent.Resolve(ctx, keyA)
	require.NoError(t, err)
	assert.Same(t, p, again)
	assert.Len(t, child.Keys(), 1)
}

func TestContainer_ClearCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newContainer()
	var calls atomic.Int64
	c.Register(keyA, lifetime.Singleton, counting(&calls))

	first, err := c.Resolve(ctx, keyA)
	require.NoError(t, err)
	c.ClearCache()
	second, err := c.Resolve(ctx, keyA)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, int64(2), calls.Load())
}

func TestContainer_Qualifiers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newContainer()
	keyStrA := mustKey[string](t, key.Named("a"))
	keyStrB := mustKey[string](t, key.Named("b"))
	c.Register(keyStrA, lifetime.Singleton, value("A"))
	c.Register(keyStrB, lifetime.Singleton, value("B"))

	a, err := c.Resolve(ctx, keyStrA)
	require.NoError(t, err)
	b, err := c.Resolve(ctx, keyStrB)
	require.NoError(t, err)

	assert.Equal(t, "A", a)
	assert.Equal(t, "B", b)

	_, err = c.Resolve(ctx, key.For[string]())
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, key.For[string](), notFound.Key)
}

func TestContainer_NotFound(t *testing.T) {
	t.Parallel()

	c := newContainer()
	k := mustKey[*serviceA](t, key.Named("missing"))

	_, err := c.Resolve(context.Background(), k)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, k, notFound.Key)
	assert.Contains(t, err.Error(), "@Named(missing)")
}

func TestContainer_NestedNotFoundIsWrapped(t *testing.T) {
	t.Parallel()

	c := newContainer()
	c.Register(keyB, lifetime.Singleton, func(ctx context.Context, r Resolver) (any, error) {
		a, err := r.Resolve(ctx, keyA)
		if err != nil {
			return nil, err
		}
		return &serviceB{a: a.(*serviceA)}, nil
	})

	_, err := c.Resolve(context.Background(), keyB)

	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, keyB, providerErr.Key)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, keyA, notFound.Key)
}

func TestContainer_ProviderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	c := newContainer()
	c.Register(keyA, lifetime.Singleton, func(context.Context, Resolver) (any, error) {
		return nil, boom
	})

	_, err := c.Resolve(context.Background(), keyA)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, c.Cached(), "failures are not cached")
}

func TestContainer_Cycle(t *testing.T) {
	t.Parallel()

	c := newContainer()
	var aCalls atomic.Int64
	c.Register(keyA, lifetime.Singleton, func(ctx context.Context, r Resolver) (any, error) {
		aCalls.Add(1)
		_, err := r.Resolve(ctx, keyB)
		return &serviceA{}, err
	})
	c.Register(keyB, lifetime.Singleton, func(ctx context.Context, r Resolver) (any, error) {
		_, err := r.Resolve(ctx, keyA)
		return &serviceB{}, err
	})

	_, err := c.Resolve(context.Background(), keyA)

	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []key.Key{keyA, keyB, keyA}, cycle.Path)
	assert.Contains(t, err.Error(), " -> ")
	assert.Equal(t, int64(1), aCalls.Load())

	_, err = c.Resolve(context.Background(), keyB)
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []key.Key{keyB, keyA, keyB}, cycle.Path, "trace does not leak between calls")
}

func TestContainer_DeepChainAcrossTree(t *testing.T) {
	t.Parallel()

	root := newContainer()
	middle := root.Child()
	leaf := middle.Child()

	root.Register(keyA, lifetime.Singleton, func(context.Context, Resolver) (any, error) {
		time.Sleep(time.Millisecond)
		return &serviceA{}, nil
	})
	middle.Register(keyB, lifetime.Singleton, func(ctx context.Context, r Resolver) (any, error) {
		a, err := r.Resolve(ctx, keyA)
		if err != nil {
			return nil, err
		}
		return &serviceB{a: a.(*serviceA)}, nil
	})

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			_, err := leaf.Resolve(context.Background(), keyA)
			assert.NoError(t, err)
		})
		wg.Go(func() {
			_, err := middle.Resolve(context.Background(), keyB)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	a, err := root.Resolve(context.Background(), keyA)
	require.NoError(t, err)
	b, err := leaf.Resolve(context.Background(), keyB)
	require.NoError(t, err)
	assert.Same(t, a, b.(*serviceB).a)
	runtime.KeepAlive(root)
	runtime.KeepAlive(middle)
}

func TestContainer_ResolveMany(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := newContainer()
	child := root.Child()

	empty, err := child.ResolveMany(ctx, keyPlugin)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	child.RegisterMany(keyPlugin, value(pluginY{}))
	root.RegisterMany(keyPlugin, value(pluginX{}))

	all, err := child.ResolveMany(ctx, keyPlugin)
	require.NoError(t, err)
	assert.Equal(t, []any{pluginX{}, pluginY{}}, all)

	fromRoot, err := root.ResolveMany(ctx, keyPlugin)
	require.NoError(t, err)
	assert.Len(t, fromRoot, 1)

	root.RegisterMany(keyPlugin, value(pluginY{}))
	all, err = child.ResolveMany(ctx, keyPlugin)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.True(t, child.HasMany(keyPlugin))
	assert.False(t, child.Has(keyPlugin))

	_, err = child.Resolve(ctx, keyPlugin)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestContainer_ResolveManyUsesResolvingContainer(t *testing.T) {
	t.Parallel()

	root := newContainer()
	child := root.Child()
	root.RegisterMany(keyPlugin, func(ctx context.Context, r Resolver) (any, error) {
		name, err := r.Resolve(ctx, key.For[string]())
		if err != nil {
			return nil, err
		}
		return name, nil
	})
	child.Register(key.For[string](), lifetime.Transient, value("child"))

	all, err := child.ResolveMany(context.Background(), keyPlugin)
	require.NoError(t, err)
	assert.Equal(t, []any{"child"}, all)

	_, err = root.ResolveMany(context.Background(), keyPlugin)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestContainer_RecordingChain(t *testing.T) {
	t.Parallel()

	c := newContainer()
	c.Register(keyA, lifetime.Singleton, value(&serviceA{}))
	c.Register(keyB, lifetime.Scoped, func(ctx context.Context, r Resolver) (any, error) {
		a, err := r.Resolve(ctx, keyA)
		if err != nil {
			return nil, err
		}
		return &serviceB{a: a.(*serviceA)}, nil
	})
	c.Register(keyC, lifetime.Transient, func(ctx context.Context, r Resolver) (any, error) {
		b, err := r.Resolve(ctx, keyB)
		if err != nil {
			return nil, err
		}
		return &serviceC{b: b.(*serviceB)}, nil
	})

	_, ok := c.StopRecording()
	assert.False(t, ok)

	c.StartRecording()
	_, err := c.Resolve(context.Background(), keyA)
	require.NoError(t, err)
	_, err = c.Resolve(context.Background(), keyC)
	require.NoError(t, err)

	snapshot, ok := c.StopRecording()
	require.True(t, ok)
	assert.ElementsMatch(t, []key.Key{keyA, keyB, keyC}, snapshot.Nodes)
	assert.True(t, snapshot.HasEdge(keyC, keyB))
	assert.True(t, snapshot.HasEdge(keyB, keyA), "cache hits still record edges")
	assert.False(t, snapshot.HasEdge(keyC, keyA))
}

func TestContainer_RecordingAggregator(t *testing.T) {
	t.Parallel()

	c := newContainer()
	c.RegisterMany(keyPlugin, value(pluginX{}))
	c.RegisterMany(keyPlugin, value(pluginY{}))
	c.Register(keyA, lifetime.Singleton, func(ctx context.Context, r Resolver) (any, error) {
		_, err := r.ResolveMany(ctx, keyPlugin)
		return &serviceA{}, err
	})

	c.StartRecording()
	_, err := c.Resolve(context.Background(), keyA)
	require.NoError(t, err)
	snapshot, ok := c.StopRecording()
	require.True(t, ok)

	agg := keyPlugin.Collection()
	assert.True(t, snapshot.Contains(agg))
	assert.True(t, snapshot.HasEdge(agg, keyPlugin))
	assert.True(t, snapshot.HasEdge(keyA, agg))
	assert.False(t, snapshot.HasEdge(keyA, keyPlugin))
}

func TestContainer_PrewarmConcurrentWithResolve(t *testing.T) {
	t.Parallel()

	c := newContainer()
	var calls atomic.Int64
	c.Register(keyA, lifetime.Singleton, func(context.Context, Resolver) (any, error) {
		time.Sleep(time.Millisecond)
		return &serviceA{id: calls.Add(1)}, nil
	})
	c.Register(keyB, lifetime.Transient, value(&serviceB{}))

	var wg sync.WaitGroup
	wg.Go(func() {
		assert.NoError(t, c.PrewarmSingletons(context.Background()))
	})
	for range 300 {
		wg.Go(func() {
			_, err := c.Resolve(context.Background(), keyA)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
	assert.Len(t, c.Cached(), 1, "transients are not prewarmed")
}

func TestContainer_SingletonFanOutInsideFactory(t *testing.T) {
	t.Parallel()

	c := newContainer()
	var calls atomic.Int64
	c.Register(keyA, lifetime.Singleton, func(context.Context, Resolver) (any, error) {
		time.Sleep(10 * time.Millisecond)
		return &serviceA{id: calls.Add(1)}, nil
	})
	c.Register(keyB, lifetime.Singleton, func(ctx context.Context, r Resolver) (any, error) {
		g, gctx := errgroup.WithContext(ctx)
		got := make([]any, 4)
		for i := range got {
			g.Go(func() error {
				a, err := r.Resolve(gctx, keyA)
				got[i] = a
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for _, a := range got[1:] {
			if a != got[0] {
				return nil, errors.New("fan-out saw different instances")
			}
		}
		return &serviceB{a: got[0].(*serviceA)}, nil
	})

	b, err := c.Resolve(context.Background(), keyB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())

	a, err := c.Resolve(context.Background(), keyA)
	require.NoError(t, err)
	assert.Same(t, a, b.(*serviceB).a)
}

func TestContainer_NestedResolveWithUnrelatedContext(t *testing.T) {
	t.Parallel()

	c := newContainer()
	c.Register(keyA, lifetime.Singleton, value(&serviceA{id: 7}))
	c.Register(keyB, lifetime.Singleton, func(context.Context, Resolver) (any, error) {
		a, err := c.Resolve(context.Background(), keyA)
		if err != nil {
			return nil, err
		}
		return &serviceB{a: a.(*serviceA)}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := c.Resolve(context.Background(), keyB)
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("nested resolve did not return")
	}
}

func TestContainer_RegisterInsideFactory(t *testing.T) {
	t.Parallel()

	c := newContainer()
	c.Register(keyA, lifetime.Singleton, func(context.Context, Resolver) (any, error) {
		c.Register(keyB, lifetime.Singleton, value(&serviceB{}))
		c.ClearCache()
		return &serviceA{}, nil
	})

	_, err := c.Resolve(context.Background(), keyA)
	require.NoError(t, err)
	assert.True(t, c.Has(keyB))
	assert.Empty(t, c.Cached(), "a build that spans ClearCache is not cached")
}

func TestContainer_CycleAcrossGoroutines(t *testing.T) {
	t.Parallel()

	c := newContainer()
	var started sync.WaitGroup
	started.Add(2)
	dependOn := func(dep key.Key, v any) Factory {
		return func(ctx context.Context, r Resolver) (any, error) {
			started.Done()
			started.Wait()
			if _, err := r.Resolve(ctx, dep); err != nil {
				return nil, err
			}
			return v, nil
		}
	}
	c.Register(keyA, lifetime.Singleton, dependOn(keyB, &serviceA{}))
	c.Register(keyB, lifetime.Singleton, dependOn(keyA, &serviceB{}))

	errs := make(chan error, 2)
	for _, k := range []key.Key{keyA, keyB} {
		go func() {
			_, err := c.Resolve(context.Background(), k)
			errs <- err
		}()
	}

	for range 2 {
		select {
		case err := <-errs:
			var cycle *CycleError
			require.ErrorAs(t, err, &cycle)
			assert.Len(t, cycle.Path, 3)
		case <-time.After(5 * time.Second):
			t.Fatal("cycle between goroutines was not reported")
		}
	}
	assert.Empty(t, c.Cached())
}

func TestContainer_ReRegisterDuringBuild(t *testing.T) {
	t.Parallel()

	c := newContainer()
	entered := make(chan struct{})
	release := make(chan struct{})
	stale := &serviceA{id: 1}
	c.Register(keyA, lifetime.Singleton, func(context.Context, Resolver) (any, error) {
		close(entered)
		<-release
		return stale, nil
	})

	done := make(chan any, 1)
	go func() {
		a, err := c.Resolve(context.Background(), keyA)
		assert.NoError(t, err)
		done <- a
	}()

	<-entered
	fresh := &serviceA{id: 2}
	c.Register(keyA, lifetime.Singleton, value(fresh))
	close(release)

	assert.Same(t, stale, <-done)
	got, err := c.Resolve(context.Background(), keyA)
	require.NoError(t, err)
	assert.Same(t, fresh, got)
}

func TestContainer_PrewarmJoinsErrors(t *testing.T) {
	t.Parallel()

	c := newContainer()
	c.Register(keyA, lifetime.Singleton, func(context.Context, Resolver) (any, error) {
		return nil, errors.New("a failed")
	})
	c.Register(keyB, lifetime.Singleton, func(context.Context, Resolver) (any, error) {
		return nil, errors.New("b failed")
	})

	err := c.PrewarmSingletons(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a failed")
	assert.Contains(t, err.Error(), "b failed")
}

func TestContainer_Hooks(t *testing.T) {
	t.Parallel()

	var resolved, registered []key.Key
	var mu sync.Mutex
	c := New(&Config{
		OnResolve: []ResolveHook{func(k key.Key, _ time.Duration, _ error) {
			mu.Lock()
			defer mu.Unlock()
			resolved = append(resolved, k)
		}},
		OnRegister: []RegisterHook{func(k key.Key) {
			registered = append(registered, k)
		}},
	})

	c.Register(keyA, lifetime.Singleton, value(&serviceA{}))
	_, err := c.Child().Resolve(context.Background(), keyA)
	require.NoError(t, err)

	assert.Equal(t, []key.Key{keyA}, registered)
	assert.Equal(t, []key.Key{keyA}, resolved)
	runtime.KeepAlive(c)
}

func TestContainer_ContextValuesReachFactory(t *testing.T) {
	t.Parallel()

	type ctxKey struct{}
	c := newContainer()
	c.Register(keyA, lifetime.Transient, func(ctx context.Context, _ Resolver) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return ctx.Value(ctxKey{}), nil
	})

	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	got, err := c.Resolve(ctx, keyA)
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = c.Resolve(cancelled, keyA)
	require.ErrorIs(t, err, context.Canceled)
}

func BenchmarkContainer_ResolveCached(b *testing.B) {
	c := newContainer()
	c.Register(keyA, lifetime.Singleton, value(&serviceA{}))
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		_, _ = c.Resolve(ctx, keyA)
	}
}

func BenchmarkContainer_ResolveTransient(b *testing.B) {
	c := newContainer()
	c.Register(keyA, lifetime.Transient, value(&serviceA{}))
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		_, _ = c.Resolve(ctx, keyA)
	}
}
