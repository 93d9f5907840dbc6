package market

import (
	"github.com/pkg/errors"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/curve"
)

const (
	// DefaultProbeAmount is the order size used to measure marginal prices
	DefaultProbeAmount = 1e-6

	// MaxTribute is the largest allowed entry or exit tribute
	MaxTribute = 0.5
)

// Ordering controls which reserve balance a buy order is priced against.
type Ordering uint8

const (
	// BalanceThenBuy adds the net payment to the reserve before pricing the
	// order, so the payment is counted in the collateral balance it is priced
	// against.
	BalanceThenBuy Ordering = iota

	// PriceBeforeDeposit prices the order against the reserve as it was before
	// the payment.
	PriceBeforeDeposit
)

func (o Ordering) String() string {
	switch o {
	case BalanceThenBuy:
		return "balance_then_buy"
	case PriceBeforeDeposit:
		return "price_before_deposit"
	}
	return "unknown"
}

// Tributes are the fee fractions extracted from buy and sell orders
type Tributes struct {
	Entry float64
	Exit  float64
}

func (t *Tributes) Validate() error {
	if !isFinite(t.Entry) || t.Entry < 0 || t.Entry > MaxTribute {
		return errors.Wrapf(curve.ErrDomain, "entry tribute %v not in [0, %v]", t.Entry, MaxTribute)
	}

	if !isFinite(t.Exit) || t.Exit < 0 || t.Exit > MaxTribute {
		return errors.Wrapf(curve.ErrDomain, "exit tribute %v not in [0, %v]", t.Exit, MaxTribute)
	}

	return nil
}

// Option configures a Market
type Option func(m *Market)

// WithOrdering sets how buy orders are priced relative to their deposit
func WithOrdering(ordering Ordering) Option {
	return func(m *Market) {
		m.ordering = ordering
	}
}

// WithProbeAmount sets the order size used by the spot price queries
func WithProbeAmount(amount float64) Option {
	return func(m *Market) {
		m.probeAmount = amount
	}
}
