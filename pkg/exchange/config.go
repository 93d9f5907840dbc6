package exchange

import (
	"github.com/spf13/viper"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/config"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/config/env"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/config/memory"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/config/viperconf"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/config/wrapper"
)

const (
	envConfigPrefix = "EXCHANGE_SERVICE_"

	DefaultEntryTributeConfigEnvName = envConfigPrefix + "DEFAULT_ENTRY_TRIBUTE"
	defaultDefaultEntryTribute       = 0.0

	DefaultExitTributeConfigEnvName = envConfigPrefix + "DEFAULT_EXIT_TRIBUTE"
	defaultDefaultExitTribute       = 0.0

	MaxOrdersPerSecondConfigEnvName = envConfigPrefix + "MAX_ORDERS_PER_SECOND"
	defaultMaxOrdersPerSecond       = 0.0 // unlimited

	LockStripesConfigEnvName = envConfigPrefix + "LOCK_STRIPES"
	defaultLockStripes       = 64
)

// Keys read by WithViperConfigs
const (
	viperKeyPrefix = "exchange."

	DefaultEntryTributeConfigKey = viperKeyPrefix + "default_entry_tribute"
	DefaultExitTributeConfigKey  = viperKeyPrefix + "default_exit_tribute"
	MaxOrdersPerSecondConfigKey  = viperKeyPrefix + "max_orders_per_second"
	LockStripesConfigKey         = viperKeyPrefix + "lock_stripes"
)

type conf struct {
	defaultEntryTribute config.Float64
	defaultExitTribute  config.Float64
	maxOrdersPerSecond  config.Float64
	lockStripes         config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			defaultEntryTribute: env.NewFloat64Config(DefaultEntryTributeConfigEnvName, defaultDefaultEntryTribute),
			defaultExitTribute:  env.NewFloat64Config(DefaultExitTributeConfigEnvName, defaultDefaultExitTribute),
			maxOrdersPerSecond:  env.NewFloat64Config(MaxOrdersPerSecondConfigEnvName, defaultMaxOrdersPerSecond),
			lockStripes:         env.NewUint64Config(LockStripesConfigEnvName, defaultLockStripes),
		}
	}
}

// WithViperConfigs returns configuration pulled from the exchange keys of v,
// so it follows the file and environment bindings of v's owner
func WithViperConfigs(v *viper.Viper) ConfigProvider {
	return func() *conf {
		return &conf{
			defaultEntryTribute: viperconf.NewFloat64Config(v, DefaultEntryTributeConfigKey, defaultDefaultEntryTribute),
			defaultExitTribute:  viperconf.NewFloat64Config(v, DefaultExitTributeConfigKey, defaultDefaultExitTribute),
			maxOrdersPerSecond:  viperconf.NewFloat64Config(v, MaxOrdersPerSecondConfigKey, defaultMaxOrdersPerSecond),
			lockStripes:         viperconf.NewUint64Config(v, LockStripesConfigKey, defaultLockStripes),
		}
	}
}

type testOverrides struct {
	entryTribute       float64
	exitTribute        float64
	maxOrdersPerSecond float64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			defaultEntryTribute: wrapper.NewFloat64Config(memory.NewConfig(overrides.entryTribute), defaultDefaultEntryTribute),
			defaultExitTribute:  wrapper.NewFloat64Config(memory.NewConfig(overrides.exitTribute), defaultDefaultExitTribute),
			maxOrdersPerSecond:  wrapper.NewFloat64Config(memory.NewConfig(overrides.maxOrdersPerSecond), defaultMaxOrdersPerSecond),
			lockStripes:         wrapper.NewUint64Config(memory.NewConfig(nil), defaultLockStripes),
		}
	}
}
