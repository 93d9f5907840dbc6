package market

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/curve"
)

// Fill is the outcome of an executed order
type Fill struct {
	// AmountIn is collateral paid for buys and tokens sold for sells
	AmountIn float64

	// AmountOut is tokens minted for buys and collateral paid out for sells
	AmountOut float64

	// Fee is the tribute extracted, in collateral
	Fee float64

	State State
}

// Buy pays payAmount of collateral into the curve and returns the tokens minted
func (m *Market) Buy(payAmount float64) (float64, error) {
	fill, err := m.BuyOrder(payAmount)
	if err != nil {
		return 0, err
	}
	return fill.AmountOut, nil
}

// BuyOrder is Buy with the full fill. The entry tribute is taken from the
// payment before it reaches the reserve.
func (m *Market) BuyOrder(payAmount float64) (*Fill, error) {
	log := m.log.WithFields(logrus.Fields{
		"method":     "BuyOrder",
		"pay_amount": payAmount,
	})

	if !isFinite(payAmount) || payAmount < 0 {
		err := errors.Wrapf(curve.ErrDomain, "pay amount %v must be non-negative", payAmount)
		log.WithError(err).Debug("rejected buy order")
		return nil, err
	}

	if effectiveSupply := m.EffectiveSupply(); effectiveSupply <= 0 {
		err := errors.Wrapf(curve.ErrDomain, "effective supply %v must be positive to mint", effectiveSupply)
		log.WithError(err).Debug("rejected buy order")
		return nil, err
	}

	fee := payAmount * m.tributes.Entry
	net := payAmount - fee

	reserveBalance := m.state.ReserveBalance + net

	var collateralBalance float64
	switch m.ordering {
	case PriceBeforeDeposit:
		collateralBalance = m.state.ReserveBalance + m.projection.VirtualBalance
	default:
		collateralBalance = reserveBalance + m.projection.VirtualBalance
	}

	minted, err := curve.BuyReturn(m.EffectiveSupply(), collateralBalance, net, m.ReserveRatio())
	if err != nil {
		log.WithError(err).Debug("rejected buy order")
		return nil, err
	}

	m.state.ReserveBalance = reserveBalance
	m.state.TokenSupply += minted

	log.WithFields(logrus.Fields{
		"fee":             fee,
		"minted":          minted,
		"token_supply":    m.state.TokenSupply,
		"reserve_balance": m.state.ReserveBalance,
	}).Debug("executed buy order")

	return &Fill{
		AmountIn:  payAmount,
		AmountOut: minted,
		Fee:       fee,
		State:     m.state,
	}, nil
}

// Sell sells sellAmount tokens into the curve and returns the collateral paid
// out after the exit tribute
func (m *Market) Sell(sellAmount float64) (float64, error) {
	fill, err := m.SellOrder(sellAmount)
	if err != nil {
		return 0, err
	}
	return fill.AmountOut, nil
}

// SellOrder is Sell with the full fill. The order is priced against the
// pre-sell supply and balance, and the exit tribute stays in the reserve.
func (m *Market) SellOrder(sellAmount float64) (*Fill, error) {
	log := m.log.WithFields(logrus.Fields{
		"method":      "SellOrder",
		"sell_amount": sellAmount,
	})

	if !isFinite(sellAmount) || sellAmount < 0 {
		err := errors.Wrapf(curve.ErrDomain, "sell amount %v must be non-negative", sellAmount)
		log.WithError(err).Debug("rejected sell order")
		return nil, err
	}

	if sellAmount > m.state.TokenSupply {
		err := errors.Wrapf(ErrInsufficientSupply, "sell amount %v exceeds token supply %v", sellAmount, m.state.TokenSupply)
		log.WithError(err).Debug("rejected sell order")
		return nil, err
	}

	gross, err := curve.SellReturn(m.EffectiveSupply(), m.EffectiveBalance(), sellAmount, m.ReserveRatio())
	if err != nil {
		log.WithError(err).Debug("rejected sell order")
		return nil, err
	}

	fee := gross * m.tributes.Exit
	payout := gross - fee

	// The reserve never goes negative, under either ordering: with the default
	// ordering the buy price double counts deposits, so large sells can be
	// priced above what the reserve really holds.
	if payout > m.state.ReserveBalance {
		err := errors.Wrapf(ErrInsufficientReserve, "payout %v exceeds reserve balance %v", payout, m.state.ReserveBalance)
		log.WithError(err).Debug("rejected sell order")
		return nil, err
	}

	m.state.TokenSupply -= sellAmount
	m.state.ReserveBalance -= payout

	log.WithFields(logrus.Fields{
		"fee":             fee,
		"payout":          payout,
		"token_supply":    m.state.TokenSupply,
		"reserve_balance": m.state.ReserveBalance,
	}).Debug("executed sell order")

	return &Fill{
		AmountIn:  sellAmount,
		AmountOut: payout,
		Fee:       fee,
		State:     m.state,
	}, nil
}
