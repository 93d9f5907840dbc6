package env

import (
	"context"
	"os"
	"strings"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/config"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/config/wrapper"
)

type conf struct {
	key string
}

// NewConfig returns a config reading the environment variable named key, upper
// cased. The variable is looked up on every Get, so changes are observed
// without restarting.
func NewConfig(key string) config.Config {
	return &conf{
		key: strings.ToUpper(key),
	}
}

// Get implements config.Config.Get. Values are returned as raw bytes, and
// blank values count as unset.
func (c *conf) Get(_ context.Context) (interface{}, error) {
	val := strings.TrimSpace(os.Getenv(c.key))
	if len(val) == 0 {
		return nil, config.ErrNoValue
	}
	return []byte(val), nil
}

// Shutdown implements config.Config.Shutdown
func (c *conf) Shutdown() {
}

// NewFloat64Config creates a env-based float64 config
func NewFloat64Config(key string, defaultValue float64) config.Float64 {
	return wrapper.NewFloat64Config(NewConfig(key), defaultValue)
}

// NewUint64Config creates a env-based uint64 config
func NewUint64Config(key string, defaultValue uint64) config.Uint64 {
	return wrapper.NewUint64Config(NewConfig(key), defaultValue)
}
