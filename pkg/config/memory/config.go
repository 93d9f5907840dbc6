package memory

import (
	"context"
	"sync"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/config"
)

// Config is an in memory config used for testing. A nil value means no value
// is set.
type Config struct {
	mu       sync.RWMutex
	value    interface{}
	err      error
	shutdown bool
}

// NewConfig returns a new in memory config holding value
func NewConfig(value interface{}) *Config {
	return &Config{value: value}
}

// Get implements config.Config.Get
func (c *Config) Get(_ context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.shutdown:
		return nil, config.ErrShutdown
	case c.err != nil:
		return nil, c.err
	case c.value == nil:
		return nil, config.ErrNoValue
	}
	return c.value, nil
}

// Shutdown implements config.Config.Shutdown
func (c *Config) Shutdown() {
	c.mu.Lock()
	c.shutdown = true
	c.mu.Unlock()
}

// Set changes the value returned by subsequent Get calls
func (c *Config) Set(value interface{}) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
}

// Clear is Set(nil)
func (c *Config) Clear() {
	c.Set(nil)
}

// SetErr makes Get fail with err, simulating an unavailable source, until it is
// called again with nil
func (c *Config) SetErr(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}
