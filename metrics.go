package hilt

import (
	"time"

	"github.com/danpasecinic/hilt/internal/container"
	"github.com/danpasecinic/hilt/internal/key"
)

// ResolveHook observes every resolution, including nested ones made by factories.
type ResolveHook func(key string, duration time.Duration, err error)

// RegisterHook observes every registration and contribution.
type RegisterHook func(key string)

func (h ResolveHook) internal() container.ResolveHook {
	return func(k key.Key, d time.Duration, err error) {
		h(k.String(), d, translate(err))
	}
}

func (h RegisterHook) internal() container.RegisterHook {
	return func(k key.Key) {
		h(k.String())
	}
}
