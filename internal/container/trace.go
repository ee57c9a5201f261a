package container

import (
	"context"
	"slices"

	"github.com/danpasecinic/hilt/internal/key"
)

// frame is one key being built. flight is set when the build is shared through
// a container's in-flight group; transient and aggregator frames leave it nil.
type frame struct {
	key    key.Key
	flight *flightKey
	parent *frame
}

// trace is the stack of keys currently being built in one call chain. Frames
// are immutable, so pushing returns a new trace and popping is implicit.
type trace struct {
	top *frame
}

type traceKey struct{}

func traceFrom(ctx context.Context) trace {
	if t, ok := ctx.Value(traceKey{}).(trace); ok {
		return t
	}
	return trace{}
}

func (t trace) into(ctx context.Context) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

func (t trace) push(k key.Key, fk *flightKey) trace {
	return trace{top: &frame{key: k, flight: fk, parent: t.top}}
}

// building returns the key whose factory is running, if any.
func (t trace) building() (key.Key, bool) {
	if t.top == nil {
		return key.Key{}, false
	}
	return t.top.key, true
}

// flight returns the innermost shared build of the chain.
func (t trace) flight() (flightKey, bool) {
	for f := t.top; f != nil; f = f.parent {
		if f.flight != nil {
			return *f.flight, true
		}
	}
	return flightKey{}, false
}

func (t trace) contains(k key.Key) bool {
	for f := t.top; f != nil; f = f.parent {
		if f.key == k {
			return true
		}
	}
	return false
}

// keys returns the stack bottom-first.
func (t trace) keys() []key.Key {
	var out []key.Key
	for f := t.top; f != nil; f = f.parent {
		out = append(out, f.key)
	}
	slices.Reverse(out)
	return out
}

// cycle returns the path from the first occurrence of k to its re-entry.
func (t trace) cycle(k key.Key) []key.Key {
	stack := t.keys()
	i := slices.Index(stack, k)
	if i < 0 {
		return nil
	}
	return append(slices.Clone(stack[i:]), k)
}
