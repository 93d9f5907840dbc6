package exchange

import (
	"time"

	"github.com/google/uuid"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/market"
)

type Side uint8

const (
	SideUnknown Side = iota
	SideBuy
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	}
	return "unknown"
}

// Receipt records an executed order
type Receipt struct {
	OrderId uuid.UUID
	Market  string
	Side    Side

	// AmountIn is collateral paid for buys and tokens sold for sells
	AmountIn float64

	// AmountOut is tokens minted for buys and collateral paid out for sells
	AmountOut float64

	// Fee is the tribute extracted, in collateral
	Fee float64

	// State is the market state after the order
	State market.State

	CreatedAt time.Time
}

func newReceipt(marketName string, side Side, fill *market.Fill) *Receipt {
	return &Receipt{
		OrderId:   uuid.New(),
		Market:    marketName,
		Side:      side,
		AmountIn:  fill.AmountIn,
		AmountOut: fill.AmountOut,
		Fee:       fill.Fee,
		State:     fill.State,
		CreatedAt: time.Now(),
	}
}

// Quote is a point-in-time view of a market's prices
type Quote struct {
	Market string

	BuyPrice  float64
	SellPrice float64

	State            market.State
	EffectiveSupply  float64
	EffectiveBalance float64
}
