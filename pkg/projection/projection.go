package projection

import (
	"math"

	"github.com/pkg/errors"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/curve"
)

// Result is the projected market and the virtual offsets that calibrate a
// single curve through both the seed point and the projected point.
type Result struct {
	Config Config

	SeedMarketCap     float64
	ExpectedPrice     float64
	ExpectedMarketCap float64

	ProjectedSupply  float64
	ProjectedBalance float64

	// VirtualSupply and VirtualBalance are added to the live supply and balance
	// on every pricing calculation
	VirtualSupply  float64
	VirtualBalance float64
}

// Compute projects the seed point forward under constant price growth
// (expected price = initial price * sqrt(growth)) and inverts the curve to find
// the supply and balance passing through both points.
func Compute(config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	r := config.ReserveRatio
	seedMarketCap := config.InitialPrice * config.InitialSupply

	if config.ExpectedGrowth == 1 {
		return &Result{
			Config:            config,
			SeedMarketCap:     seedMarketCap,
			ExpectedPrice:     config.InitialPrice,
			ExpectedMarketCap: seedMarketCap,
			ProjectedSupply:   config.InitialSupply,
			ProjectedBalance:  config.InitialBalance,
		}, nil
	}

	expectedPrice := config.InitialPrice * math.Sqrt(config.ExpectedGrowth)
	expectedMarketCap := seedMarketCap * config.ExpectedGrowth

	denominator := math.Pow(expectedMarketCap, 1-r) * math.Pow(config.InitialPrice, r)
	projectedSupply := math.Pow(expectedPrice/denominator, 1/(r-1))
	projectedBalance := config.InitialPrice * projectedSupply * r

	res := &Result{
		Config:            config,
		SeedMarketCap:     seedMarketCap,
		ExpectedPrice:     expectedPrice,
		ExpectedMarketCap: expectedMarketCap,
		ProjectedSupply:   projectedSupply,
		ProjectedBalance:  projectedBalance,
		VirtualSupply:     projectedSupply - config.InitialSupply,
		VirtualBalance:    projectedBalance - config.InitialBalance,
	}

	for _, v := range []float64{
		res.ExpectedPrice,
		res.ExpectedMarketCap,
		res.ProjectedSupply,
		res.ProjectedBalance,
	} {
		if !isFinite(v) {
			return nil, errors.Wrap(curve.ErrDomain, "projection overflowed")
		}
	}

	return res, nil
}

// ComputeHatch runs Compute against the seed point of a hatch
func ComputeHatch(hatch HatchConfig) (*Result, error) {
	config, err := hatch.ToConfig()
	if err != nil {
		return nil, err
	}
	return Compute(*config)
}

// VanillaPriceAt is the price on the curve anchored at the seed point alone
func (r *Result) VanillaPriceAt(supply float64) (float64, error) {
	return curve.PriceAtBalance(supply, r.Config.InitialSupply, r.Config.InitialBalance, r.Config.ReserveRatio)
}

// VirtualPriceAt is the price on the curve anchored at the seed point shifted
// by the virtual offsets
func (r *Result) VirtualPriceAt(supply float64) (float64, error) {
	return curve.PriceAtBalance(
		supply,
		r.Config.InitialSupply+r.VirtualSupply,
		r.Config.InitialBalance+r.VirtualBalance,
		r.Config.ReserveRatio,
	)
}
