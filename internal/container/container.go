package container

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"golang.org/x/sync/singleflight"

	"github.com/danpasecinic/hilt/internal/graph"
	"github.com/danpasecinic/hilt/internal/key"
	"github.com/danpasecinic/hilt/internal/lifetime"
)

type ResolveHook func(k key.Key, duration time.Duration, err error)

type RegisterHook func(k key.Key)

// Container owns a registry and a cache and links weakly to its parent. All
// containers of one tree share a wait graph used to report cycles between
// concurrent builds.
type Container struct {
	parent   weak.Pointer[Container]
	waits    *waitGraph
	registry *Registry
	cache    *Cache
	flights  singleflight.Group

	// mu orders cache commits against Register and ClearCache. epoch counts
	// ClearCache calls.
	mu    sync.Mutex
	epoch atomic.Uint64

	recorder *graph.Recorder[key.Key]
	logger   *slog.Logger

	onResolve  []ResolveHook
	onRegister []RegisterHook
}

type Config struct {
	Logger     *slog.Logger
	OnResolve  []ResolveHook
	OnRegister []RegisterHook
}

func New(cfg *Config) *Container {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Container{
		waits:      newWaitGraph(),
		registry:   NewRegistry(),
		cache:      NewCache(),
		recorder:   graph.NewRecorder[key.Key](),
		logger:     logger,
		onResolve:  cfg.OnResolve,
		onRegister: cfg.OnRegister,
	}
}

// Child returns an empty container whose lookups fall through to c. The child
// keeps no strong reference to c.
func (c *Container) Child() *Container {
	return &Container{
		parent:     weak.Make(c),
		waits:      c.waits,
		registry:   NewRegistry(),
		cache:      NewCache(),
		recorder:   graph.NewRecorder[key.Key](),
		logger:     c.logger,
		onResolve:  c.onResolve,
		onRegister: c.onRegister,
	}
}

// Parent returns the parent container, or nil for a root or when the parent
// has been collected.
func (c *Container) Parent() *Container {
	return c.parent.Value()
}

// chain returns c followed by its ancestors, nearest first.
func (c *Container) chain() []*Container {
	var out []*Container
	for cur := c; cur != nil; cur = cur.Parent() {
		out = append(out, cur)
	}
	return out
}

var entrySeq atomic.Uint64

// Register installs a provider for k in this container and evicts any instance
// of k cached here. Descendant caches are left alone. A build of the replaced
// provider that is still running returns its instance but does not cache it.
func (c *Container) Register(k key.Key, lt lifetime.Lifetime, factory Factory) {
	entry := &ProviderEntry{
		Key:      k,
		Lifetime: lt,
		Factory:  factory,
		id:       fmt.Sprintf("entry-%d", entrySeq.Add(1)),
	}

	c.mu.Lock()
	c.registry.Set(entry)
	c.cache.Delete(k)
	c.mu.Unlock()

	c.logger.Debug("registered provider", "key", k.String(), "lifetime", lt.String())
	c.callRegisterHooks(k)
}

// RegisterMany appends a contribution for k.
func (c *Container) RegisterMany(k key.Key, factory Factory) {
	c.registry.Append(k, factory)

	c.logger.Debug("registered contribution", "key", k.String())
	c.callRegisterHooks(k)
}

func (c *Container) callRegisterHooks(k key.Key) {
	for _, hook := range c.onRegister {
		hook(k)
	}
}

// Has reports whether Resolve(k) would find a provider in c or an ancestor.
func (c *Container) Has(k key.Key) bool {
	for _, cur := range c.chain() {
		if cur.registry.Has(k) {
			return true
		}
	}
	return false
}

// HasMany reports whether c or an ancestor holds a contribution for k.
func (c *Container) HasMany(k key.Key) bool {
	for _, cur := range c.chain() {
		if cur.registry.HasMany(k) {
			return true
		}
	}
	return false
}

// Keys returns the single-binding keys registered in this container.
func (c *Container) Keys() []key.Key {
	return c.registry.Keys()
}

func (c *Container) Size() int {
	return c.registry.Size()
}

// Cached returns this container's cached instances in creation order.
func (c *Container) Cached() []CacheEntry {
	return c.cache.Entries()
}

// ClearCache empties this container's own cache. Builds already running when
// it is called do not cache their instances.
func (c *Container) ClearCache() {
	c.mu.Lock()
	c.epoch.Add(1)
	c.cache.Clear()
	c.mu.Unlock()

	c.logger.Debug("cleared cache")
}

func (c *Container) Logger() *slog.Logger {
	return c.logger
}

func (c *Container) StartRecording() {
	c.recorder.Start()
}

func (c *Container) StopRecording() (graph.Snapshot[key.Key], bool) {
	return c.recorder.Stop()
}

func (c *Container) Recording() (graph.Snapshot[key.Key], bool) {
	return c.recorder.Snapshot()
}

func (c *Container) record(t trace, k key.Key) {
	if !c.recorder.Active() {
		return
	}
	if from, ok := t.building(); ok {
		c.recorder.RecordEdge(from, k)
		return
	}
	c.recorder.RecordNode(k)
}
