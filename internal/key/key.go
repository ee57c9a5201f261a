// Package key defines the identity used for every registration and cache entry.
package key

import (
	"fmt"
	"reflect"

	hreflect "github.com/danpasecinic/hilt/internal/reflect"
)

// Key identifies a binding: a type plus an optional qualifier. Keys are
// comparable and are used directly as map keys.
type Key struct {
	typ       reflect.Type
	qualifier any
}

// Named is the conventional string qualifier.
type Named string

func (n Named) String() string {
	return "@Named(" + string(n) + ")"
}

// ErrInvalidQualifier reports a qualifier that cannot be compared.
type ErrInvalidQualifier struct {
	Type reflect.Type
}

func (e *ErrInvalidQualifier) Error() string {
	return "qualifier of type " + e.Type.String() + " is not comparable"
}

// New builds a key for t. A nil qualifier means unqualified.
func New(t reflect.Type, qualifier any) (Key, error) {
	if !hreflect.Comparable(qualifier) {
		return Key{}, &ErrInvalidQualifier{Type: reflect.TypeOf(qualifier)}
	}
	return Key{typ: t, qualifier: qualifier}, nil
}

// Of builds a key for T.
func Of[T any](qualifier any) (Key, error) {
	return New(hreflect.TypeOf[T](), qualifier)
}

// For is Of without a qualifier; it cannot fail.
func For[T any]() Key {
	return Key{typ: hreflect.TypeOf[T]()}
}

func (k Key) Type() reflect.Type {
	return k.typ
}

func (k Key) Qualifier() any {
	return k.qualifier
}

func (k Key) Qualified() bool {
	return k.qualifier != nil
}

func (k Key) IsZero() bool {
	return k.typ == nil
}

// Collection returns the aggregator key standing for "all contributions of k".
func (k Key) Collection() Key {
	return Key{typ: reflect.SliceOf(k.typ), qualifier: k.qualifier}
}

func (k Key) TypeName() string {
	return hreflect.Name(k.typ)
}

func (k Key) String() string {
	if k.qualifier == nil {
		return k.TypeName()
	}
	return k.TypeName() + " " + fmt.Sprint(k.qualifier)
}
