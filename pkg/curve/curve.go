package curve

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrDomain indicates an input or result outside of the curve's mathematical domain
	ErrDomain = errors.New("curve: value outside of domain")
)

// PriceAt evaluates the power-law curve pinned to (anchorSupply, anchorPrice):
//
//	price = anchorPrice * (supply / anchorSupply) ^ ((1 / r) - 1)
func PriceAt(supply, anchorSupply, anchorPrice, reserveRatio float64) (float64, error) {
	if err := validateReserveRatio(reserveRatio); err != nil {
		return 0, err
	}
	if err := validateNonNegative("supply", supply); err != nil {
		return 0, err
	}
	if err := validatePositive("anchor supply", anchorSupply); err != nil {
		return 0, err
	}
	if err := validateNonNegative("anchor price", anchorPrice); err != nil {
		return 0, err
	}

	exponent := 1/reserveRatio - 1
	if exponent == 0 {
		return anchorPrice, nil
	}
	if supply == 0 {
		return 0, nil
	}

	return finite(anchorPrice * math.Pow(supply/anchorSupply, exponent))
}

// PriceAtBalance evaluates the curve pinned to a supply and the reserve balance
// held at that supply.
func PriceAtBalance(supply, anchorSupply, anchorBalance, reserveRatio float64) (float64, error) {
	anchorPrice, err := SpotPrice(anchorSupply, anchorBalance, reserveRatio)
	if err != nil {
		return 0, err
	}
	return PriceAt(supply, anchorSupply, anchorPrice, reserveRatio)
}

// SpotPrice is the price implied by r = balance / (supply * price)
func SpotPrice(supply, balance, reserveRatio float64) (float64, error) {
	if err := validateReserveRatio(reserveRatio); err != nil {
		return 0, err
	}
	if err := validatePositive("supply", supply); err != nil {
		return 0, err
	}
	if err := validateNonNegative("balance", balance); err != nil {
		return 0, err
	}

	return finite(balance / (reserveRatio * supply))
}

// BuyReturn is the number of tokens minted when payAmount of collateral is paid
// into a curve holding balance against supply:
//
//	tokens = supply * ((1 + payAmount / balance) ^ r - 1)
func BuyReturn(supply, balance, payAmount, reserveRatio float64) (float64, error) {
	if err := validateReserveRatio(reserveRatio); err != nil {
		return 0, err
	}
	if err := validateNonNegative("supply", supply); err != nil {
		return 0, err
	}
	if err := validatePositive("balance", balance); err != nil {
		return 0, err
	}
	if err := validateNonNegative("pay amount", payAmount); err != nil {
		return 0, err
	}

	return finite(supply * growth(payAmount/balance, reserveRatio))
}

// SellReturn is the collateral returned when sellAmount tokens are sold into a
// curve holding balance against supply:
//
//	collateral = balance * ((1 + sellAmount / supply) ^ (1 / r) - 1)
func SellReturn(supply, balance, sellAmount, reserveRatio float64) (float64, error) {
	if err := validateReserveRatio(reserveRatio); err != nil {
		return 0, err
	}
	if err := validatePositive("supply", supply); err != nil {
		return 0, err
	}
	if err := validateNonNegative("balance", balance); err != nil {
		return 0, err
	}
	if err := validateNonNegative("sell amount", sellAmount); err != nil {
		return 0, err
	}
	if sellAmount > supply {
		return 0, errors.Wrapf(ErrDomain, "sell amount %v exceeds supply %v", sellAmount, supply)
	}

	return finite(balance * growth(sellAmount/supply, 1/reserveRatio))
}

// growth computes (1 + x) ^ k - 1 without losing precision for tiny x
func growth(x, k float64) float64 {
	return math.Expm1(k * math.Log1p(x))
}

func validateReserveRatio(reserveRatio float64) error {
	if math.IsNaN(reserveRatio) || reserveRatio <= 0 || reserveRatio > 1 {
		return errors.Wrapf(ErrDomain, "reserve ratio %v not in (0, 1]", reserveRatio)
	}
	return nil
}

func validatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return errors.Wrapf(ErrDomain, "%s must be positive, got %v", name, v)
	}
	return nil
}

func validateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return errors.Wrapf(ErrDomain, "%s must be non-negative, got %v", name, v)
	}
	return nil
}

func finite(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Wrapf(ErrDomain, "non-finite result %v", v)
	}
	return v, nil
}
