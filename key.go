package hilt

import (
	"github.com/danpasecinic/hilt/internal/key"
)

// Key identifies a binding: a type plus an optional qualifier.
type Key = key.Key

// Named is the conventional string qualifier. It renders as @Named(name).
type Named = key.Named

// KeyOf builds the key for T under qualifier, which may be nil. The qualifier
// must be comparable.
func KeyOf[T any](qualifier any) (Key, error) {
	k, err := key.Of[T](qualifier)
	if err != nil {
		return Key{}, errInvalidQualifier(err)
	}
	return k, nil
}

// KeyFor is KeyOf without a qualifier.
func KeyFor[T any]() Key {
	return key.For[T]()
}

// CollectionKey returns the aggregator key that stands for all contributions of k
// in recorded graphs.
func CollectionKey(k Key) Key {
	return k.Collection()
}

// KeyWith builds the key that Register and Resolve derive for T from opts.
func KeyWith[T any](opts ...BindingOption) (Key, error) {
	return bindingKey[T](newBindingConfig(opts))
}
