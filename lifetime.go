package hilt

import "github.com/danpasecinic/hilt/internal/lifetime"

type Lifetime = lifetime.Lifetime

const (
	Singleton = lifetime.Singleton
	Transient = lifetime.Transient
	Scoped    = lifetime.Scoped
)
