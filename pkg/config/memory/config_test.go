package memory

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/config"
)

func TestConfig(t *testing.T) {
	ctx := context.Background()

	c := NewConfig(nil)
	_, err := c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	c.Set(0.05)
	val, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.05, val)

	c.Clear()
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	unavailable := errors.New("unavailable")
	c.Set(0.1)
	c.SetErr(unavailable)
	_, err = c.Get(ctx)
	assert.Equal(t, unavailable, err)

	c.SetErr(nil)
	val, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.1, val)

	c.Shutdown()
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrShutdown, err)
}
