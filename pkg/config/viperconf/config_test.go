package viperconf

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/config"
)

func TestConfig(t *testing.T) {
	ctx := context.Background()
	v := viper.New()

	c := NewConfig(v, "exchange.lock_stripes")
	_, err := c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	v.Set("exchange.lock_stripes", 16)
	val, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 16, val)

	v.Set("exchange.lock_stripes", " ")
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	c.Shutdown()
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrShutdown, err)
}

func TestTypedConfigs_File(t *testing.T) {
	ctx := context.Background()

	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(`
exchange:
  default_exit_tribute: 0.05
  max_orders_per_second: 2
  lock_stripes: 32
`)))

	assert.Equal(t, 0.05, NewFloat64Config(v, "exchange.default_exit_tribute", 0).Get(ctx))
	assert.Equal(t, 2.0, NewFloat64Config(v, "exchange.max_orders_per_second", 0).Get(ctx))
	assert.EqualValues(t, 32, NewUint64Config(v, "exchange.lock_stripes", 64).Get(ctx))
	assert.Equal(t, 0.1, NewFloat64Config(v, "exchange.default_entry_tribute", 0.1).Get(ctx))
}

func TestTypedConfigs_Env(t *testing.T) {
	ctx := context.Background()

	v := viper.New()
	require.NoError(t, v.BindEnv("exchange.default_entry_tribute", "VIPERCONF_TEST_ENTRY_TRIBUTE"))

	tribute := NewFloat64Config(v, "exchange.default_entry_tribute", 0)
	assert.Equal(t, 0.0, tribute.Get(ctx))

	t.Setenv("VIPERCONF_TEST_ENTRY_TRIBUTE", "0.02")
	assert.Equal(t, 0.02, tribute.Get(ctx))
}
