package projection

import (
	"math"

	"github.com/pkg/errors"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/curve"
)

// Config is the seed point of the curve along with the growth the curve is
// expected to accommodate.
type Config struct {
	InitialBalance float64
	InitialSupply  float64
	InitialPrice   float64

	// ExpectedGrowth is the multiplicative growth in market cap, and must be at
	// least 1
	ExpectedGrowth float64

	ReserveRatio float64
}

func (c *Config) Validate() error {
	if !isFinite(c.InitialBalance) || c.InitialBalance < 0 {
		return errors.Wrap(curve.ErrDomain, "initial balance must be non-negative")
	}

	if !isFinite(c.InitialSupply) || c.InitialSupply <= 0 {
		return errors.Wrap(curve.ErrDomain, "initial supply must be positive")
	}

	if !isFinite(c.InitialPrice) || c.InitialPrice <= 0 {
		return errors.Wrap(curve.ErrDomain, "initial price must be positive")
	}

	if !isFinite(c.ExpectedGrowth) || c.ExpectedGrowth < 1 {
		return errors.Wrapf(curve.ErrDomain, "expected growth must be at least 1, got %v", c.ExpectedGrowth)
	}

	// r = 1 leaves the projected supply exponent 1 / (r - 1) undefined
	if math.IsNaN(c.ReserveRatio) || c.ReserveRatio <= 0 || c.ReserveRatio >= 1 {
		return errors.Wrapf(curve.ErrDomain, "reserve ratio %v not in (0, 1)", c.ReserveRatio)
	}

	return nil
}

// HatchConfig describes a hatch fundraise. The seed point of the curve is
// derived from what was raised, at what price, and how much of it went to the
// hatch tribute.
type HatchConfig struct {
	TotalRaised  float64
	HatchTribute float64
	HatchPrice   float64

	InitialPrice   float64
	ExpectedGrowth float64
	ReserveRatio   float64
}

func (c *HatchConfig) Validate() error {
	if !isFinite(c.TotalRaised) || c.TotalRaised <= 0 {
		return errors.Wrap(curve.ErrDomain, "total raised must be positive")
	}

	if !isFinite(c.HatchTribute) || c.HatchTribute < 0 || c.HatchTribute >= 1 {
		return errors.Wrapf(curve.ErrDomain, "hatch tribute %v not in [0, 1)", c.HatchTribute)
	}

	if !isFinite(c.HatchPrice) || c.HatchPrice <= 0 {
		return errors.Wrap(curve.ErrDomain, "hatch price must be positive")
	}

	return nil
}

// SeedSupply is the supply minted to hatchers
func (c *HatchConfig) SeedSupply() float64 {
	return c.TotalRaised / c.HatchPrice
}

// SeedBalance is the collateral left in the reserve after the hatch tribute
func (c *HatchConfig) SeedBalance() float64 {
	return c.TotalRaised * (1 - c.HatchTribute)
}

// ToConfig converts the hatch into the seed point of a projection
func (c *HatchConfig) ToConfig() (*Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	config := &Config{
		InitialBalance: c.SeedBalance(),
		InitialSupply:  c.SeedSupply(),
		InitialPrice:   c.InitialPrice,
		ExpectedGrowth: c.ExpectedGrowth,
		ReserveRatio:   c.ReserveRatio,
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
