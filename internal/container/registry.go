package container

import (
	"slices"
	"sync"

	"github.com/danpasecinic/hilt/internal/key"
	"github.com/danpasecinic/hilt/internal/lifetime"
)

type ProviderEntry struct {
	Key      key.Key
	Lifetime lifetime.Lifetime
	Factory  Factory

	// id keys the entry's shared builds.
	id string
}

// Registry holds one container's own providers: single bindings keyed by key,
// and ordered contribution lists for multibindings.
type Registry struct {
	mu        sync.RWMutex
	providers map[key.Key]*ProviderEntry
	order     []key.Key
	many      map[key.Key][]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[key.Key]*ProviderEntry),
		many:      make(map[key.Key][]Factory),
	}
}

// Set installs entry, replacing any previous one for the same key. The key keeps
// its original registration position.
func (r *Registry) Set(entry *ProviderEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[entry.Key]; !exists {
		r.order = append(r.order, entry.Key)
	}
	r.providers[entry.Key] = entry
}

func (r *Registry) Get(k key.Key) (*ProviderEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.providers[k]
	return entry, exists
}

// Has reports a single binding for k. Contributions do not count.
func (r *Registry) Has(k key.Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.providers[k]
	return exists
}

// HasMany reports at least one contribution for k.
func (r *Registry) HasMany(k key.Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.many[k]) > 0
}

// Keys returns single-binding keys in registration order.
func (r *Registry) Keys() []key.Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

func (r *Registry) KeysWithLifetime(l lifetime.Lifetime) []key.Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var keys []key.Key
	for _, k := range r.order {
		if r.providers[k].Lifetime == l {
			keys = append(keys, k)
		}
	}
	return keys
}

func (r *Registry) Append(k key.Key, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.many[k] = append(r.many[k], f)
}

// Many returns a copy of the contribution list for k.
func (r *Registry) Many(k key.Key) []Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.many[k])
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.providers)
}
