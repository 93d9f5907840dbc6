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

// Config is a source of a single, untyped configuration value. Sources are
// environment variables (env), viper keys (viperconf) and in memory values for
// tests (memory).
type Config interface {
	// Get returns the latest config value, or ErrNoValue when the source has
	// nothing set
	Get(ctx context.Context) (interface{}, error)

	// Shutdown signals the config to stop all underlying resources
	Shutdown()
}

// Typed is a Config converted to values of a single type, with a default for
// when the source has no value. See the wrapper package.
type Typed[T any] interface {
	// Get returns the latest value, or the last known good value on error
	Get(ctx context.Context) T

	// GetSafe is Get, with the error getting or converting the value
	GetSafe(ctx context.Context) (T, error)

	Shutdown()
}

// Float64 is used for tributes and rates
type Float64 = Typed[float64]

// Uint64 is used for counts, like lock stripes
type Uint64 = Typed[uint64]
