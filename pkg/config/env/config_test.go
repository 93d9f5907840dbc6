package env

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/config"
)

func TestConfig(t *testing.T) {
	const env = "ENV_CONFIG_TEST_VAR"
	c := NewConfig(env)

	_, err := c.Get(context.Background())
	assert.Equal(t, config.ErrNoValue, err)

	// Changes after construction are observed
	t.Setenv(env, " value\n")
	v, err := c.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	t.Setenv(env, "  ")
	v, err = c.Get(context.Background())
	assert.Nil(t, v)
	assert.Equal(t, config.ErrNoValue, err)
}

func TestTypedConfigs(t *testing.T) {
	ctx := context.Background()

	t.Setenv("ENV_CONFIG_TEST_TRIBUTE", "0.05")
	t.Setenv("ENV_CONFIG_TEST_STRIPES", "16")

	assert.Equal(t, 0.05, NewFloat64Config("env_config_test_tribute", 0).Get(ctx))
	assert.EqualValues(t, 16, NewUint64Config("ENV_CONFIG_TEST_STRIPES", 0).Get(ctx))

	assert.Equal(t, 0.1, NewFloat64Config("ENV_CONFIG_TEST_UNSET", 0.1).Get(ctx))
}
