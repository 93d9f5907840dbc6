package wrapper

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/config"
)

// ErrUnsuportedConversion indicates the wrapper does not implement conversion from the source type
var ErrUnsuportedConversion = errors.New("config: wrapper conversion from source type not implemented")

// TypedConfig converts a config.Config into typed values, falling back to a
// default when the source has no value.
type TypedConfig[T any] struct {
	override     config.Config
	defaultValue T
	convert      func(interface{}) (T, error)

	stateMu   sync.RWMutex
	lastValue T
}

func newTypedConfig[T any](override config.Config, defaultValue T, convert func(interface{}) (T, error)) *TypedConfig[T] {
	return &TypedConfig[T]{
		override:     override,
		defaultValue: defaultValue,
		convert:      convert,
		lastValue:    defaultValue,
	}
}

// GetSafe gets a config value and propagates any errors that arise. A best-effort
// attempt is made to return the last known value
func (c *TypedConfig[T]) GetSafe(ctx context.Context) (T, error) {
	override, err := c.override.Get(ctx)
	if errors.Is(err, config.ErrNoValue) {
		c.setLastValue(c.defaultValue)
		return c.defaultValue, nil
	} else if err != nil {
		return c.getLastValue(), err
	}

	newValue, err := c.convert(override)
	if err != nil {
		return c.getLastValue(), err
	}
	c.setLastValue(newValue)
	return newValue, nil
}

// Get is a wrapper for GetSafe that ignores the returned error
func (c *TypedConfig[T]) Get(ctx context.Context) T {
	val, _ := c.GetSafe(ctx)
	return val
}

// Shutdown signals the config to stop all underlying resources
func (c *TypedConfig[T]) Shutdown() {
	c.override.Shutdown()
}

func (c *TypedConfig[T]) getLastValue() T {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.lastValue
}

func (c *TypedConfig[T]) setLastValue(value T) {
	c.stateMu.Lock()
	c.lastValue = value
	c.stateMu.Unlock()
}

// normalize maps raw env bytes to a string, and rejects source types cast
// would otherwise try to interpret
func normalize(v interface{}) (interface{}, error) {
	switch typed := v.(type) {
	case []byte:
		return string(typed), nil
	case string, int, int32, int64, uint, uint32, uint64, float32, float64:
		return typed, nil
	}
	return nil, ErrUnsuportedConversion
}

// NewFloat64Config returns a new float64 config utility wrapper
func NewFloat64Config(override config.Config, defaultValue float64) config.Float64 {
	return newTypedConfig(override, defaultValue, func(v interface{}) (float64, error) {
		normalized, err := normalize(v)
		if err != nil {
			return 0, err
		}
		return cast.ToFloat64E(normalized)
	})
}

// NewUint64Config returns a new uint64 config utility wrapper
func NewUint64Config(override config.Config, defaultValue uint64) config.Uint64 {
	return newTypedConfig(override, defaultValue, func(v interface{}) (uint64, error) {
		normalized, err := normalize(v)
		if err != nil {
			return 0, err
		}
		return cast.ToUint64E(normalized)
	})
}
