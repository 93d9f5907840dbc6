// Package viperconf sources config values from keys of a viper instance, so a
// library's knobs follow whatever file and environment bindings the command
// using it set up.
package viperconf

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/spf13/viper"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/config"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/config/wrapper"
)

type conf struct {
	v        *viper.Viper
	key      string
	shutdown atomic.Bool
}

// NewConfig returns a config reading key from v on every Get
func NewConfig(v *viper.Viper, key string) config.Config {
	return &conf{
		v:   v,
		key: key,
	}
}

// Get implements config.Config.Get
func (c *conf) Get(_ context.Context) (interface{}, error) {
	if c.shutdown.Load() {
		return nil, config.ErrShutdown
	}

	val := c.v.Get(c.key)
	if val == nil {
		return nil, config.ErrNoValue
	}
	if s, ok := val.(string); ok && len(strings.TrimSpace(s)) == 0 {
		return nil, config.ErrNoValue
	}
	return val, nil
}

// Shutdown implements config.Config.Shutdown. The viper instance is owned by
// the caller and left untouched.
func (c *conf) Shutdown() {
	c.shutdown.Store(true)
}

// NewFloat64Config creates a viper-based float64 config
func NewFloat64Config(v *viper.Viper, key string, defaultValue float64) config.Float64 {
	return wrapper.NewFloat64Config(NewConfig(v, key), defaultValue)
}

// NewUint64Config creates a viper-based uint64 config
func NewUint64Config(v *viper.Viper, key string, defaultValue uint64) config.Uint64 {
	return wrapper.NewUint64Config(NewConfig(v, key), defaultValue)
}
