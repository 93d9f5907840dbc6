package main

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/exchange"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/market"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/projection"
)

// Config is the configuration of the abc command
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	// LogFile, when set, sends logs to a rotated file instead of stderr
	LogFile string `mapstructure:"log_file"`

	AppName            string `mapstructure:"app_name"`
	NewRelicLicenseKey string `mapstructure:"new_relic_license_key"`

	// Samples is the number of evenly spaced supplies the curves are sampled
	// at, from zero to SampleMaxSupply
	Samples         int     `mapstructure:"samples"`
	SampleMaxSupply float64 `mapstructure:"sample_max_supply"`

	// OrderAttempts bounds how many times a rate limited scenario order is
	// submitted, backing off exponentially from OrderRetryDelay
	OrderAttempts   uint          `mapstructure:"order_attempts"`
	OrderRetryDelay time.Duration `mapstructure:"order_retry_delay"`

	Market MarketConfig `mapstructure:"market"`
}

// MarketConfig is the hatch and trading configuration of the simulated market
type MarketConfig struct {
	Name string `mapstructure:"name"`

	TotalRaised    float64 `mapstructure:"total_raised"`
	HatchTribute   float64 `mapstructure:"hatch_tribute"`
	HatchPrice     float64 `mapstructure:"hatch_price"`
	InitialPrice   float64 `mapstructure:"initial_price"`
	ExpectedGrowth float64 `mapstructure:"expected_growth"`
	ReserveRatio   float64 `mapstructure:"reserve_ratio"`

	EntryTribute float64 `mapstructure:"entry_tribute"`
	ExitTribute  float64 `mapstructure:"exit_tribute"`

	// Ordering is one of balance_then_buy or price_before_deposit
	Ordering string `mapstructure:"ordering"`
}

var defaultConfig = Config{
	LogLevel: "info",
	AppName:  "abc",

	Samples:         1000,
	SampleMaxSupply: 1e6,

	OrderAttempts:   3,
	OrderRetryDelay: 100 * time.Millisecond,

	Market: MarketConfig{
		Name: "abc",

		TotalRaised:    1e6,
		HatchTribute:   0.05,
		HatchPrice:     1,
		InitialPrice:   2,
		ExpectedGrowth: 200,
		ReserveRatio:   0.1,

		Ordering: market.BalanceThenBuy.String(),
	},
}

var envBindings = map[string]string{
	"log_level":             "LOG_LEVEL",
	"log_file":              "LOG_FILE",
	"app_name":              "APP_NAME",
	"new_relic_license_key": "NEW_RELIC_LICENSE_KEY",

	"samples":           "SAMPLES",
	"sample_max_supply": "SAMPLE_MAX_SUPPLY",

	"order_attempts":    "ORDER_ATTEMPTS",
	"order_retry_delay": "ORDER_RETRY_DELAY",

	"market.name":            "MARKET_NAME",
	"market.total_raised":    "TOTAL_RAISED",
	"market.hatch_tribute":   "HATCH_TRIBUTE",
	"market.hatch_price":     "HATCH_PRICE",
	"market.initial_price":   "INITIAL_PRICE",
	"market.expected_growth": "EXPECTED_GROWTH",
	"market.reserve_ratio":   "RESERVE_RATIO",
	"market.entry_tribute":   "ENTRY_TRIBUTE",
	"market.exit_tribute":    "EXIT_TRIBUTE",
	"market.ordering":        "ORDERING",

	exchange.DefaultEntryTributeConfigKey: exchange.DefaultEntryTributeConfigEnvName,
	exchange.DefaultExitTributeConfigKey:  exchange.DefaultExitTributeConfigEnvName,
	exchange.MaxOrdersPerSecondConfigKey:  exchange.MaxOrdersPerSecondConfigEnvName,
	exchange.LockStripesConfigKey:         exchange.LockStripesConfigEnvName,
}

// loadConfig reads the config file at path, when it exists, and applies
// environment overrides on top of the defaults. The exchange section stays in
// v, for exchange.WithViperConfigs.
func loadConfig(v *viper.Viper, path string) (*Config, error) {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Wrapf(err, "error binding %s", env)
		}
	}

	// viper.ReadInConfig only returns ConfigFileNotFoundError when searching
	// for a default config file, so a missing explicit file is checked here.
	if len(path) > 0 {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrap(err, "error reading config")
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "error checking config file")
		}
	}

	config := defaultConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling config")
	}

	if config.Samples < 0 {
		return nil, errors.New("samples must be non-negative")
	}
	if config.SampleMaxSupply <= 0 {
		return nil, errors.New("sample max supply must be positive")
	}
	if config.OrderAttempts == 0 {
		return nil, errors.New("order attempts must be positive")
	}

	return &config, nil
}

func (c *MarketConfig) hatch() projection.HatchConfig {
	return projection.HatchConfig{
		TotalRaised:    c.TotalRaised,
		HatchTribute:   c.HatchTribute,
		HatchPrice:     c.HatchPrice,
		InitialPrice:   c.InitialPrice,
		ExpectedGrowth: c.ExpectedGrowth,
		ReserveRatio:   c.ReserveRatio,
	}
}

func (c *MarketConfig) tributes() market.Tributes {
	return market.Tributes{
		Entry: c.EntryTribute,
		Exit:  c.ExitTribute,
	}
}

func (c *MarketConfig) ordering() (market.Ordering, error) {
	switch strings.ToLower(c.Ordering) {
	case "", market.BalanceThenBuy.String():
		return market.BalanceThenBuy, nil
	case market.PriceBeforeDeposit.String():
		return market.PriceBeforeDeposit, nil
	}
	return 0, errors.Errorf("unknown ordering %q", c.Ordering)
}
