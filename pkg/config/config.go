package config

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrNoValue indicates no value was set for the config
	ErrNoValue = errors.New("config: no value set")

	// ErrShutdown indicates the use of a Config after calling Shutdown
	ErrShutdown = errors.New("config: shutdown")
)

// Config is a source of a single untyped configuration value.
type Config interface {
	// Get returns the latest config value
	Get(ctx context.Context) (interface{}, error)

	// Shutdown signals the config to stop all underlying resources
	Shutdown()
}

// Typed is a Config whose values are converted to T.
type Typed[T any] interface {
	// Get returns the latest value, falling back to the last known value.
	Get(ctx context.Context) T

	// GetSafe is Get with the underlying error propagated.
	GetSafe(ctx context.Context) (T, error)

	Shutdown()
}

type (
	Uint64 = Typed[uint64]
	String = Typed[string]
)
