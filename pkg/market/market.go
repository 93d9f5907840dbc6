package market

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/curve"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/projection"
)

var (
	// ErrInsufficientSupply indicates a sell order larger than the live token supply
	ErrInsufficientSupply = errors.New("market: insufficient token supply")

	// ErrInsufficientReserve indicates a sell order whose payout exceeds the live
	// reserve balance
	ErrInsufficientReserve = errors.New("market: insufficient reserve balance")
)

// State is the live supply and reserve of a market, excluding virtual offsets
type State struct {
	TokenSupply    float64
	ReserveBalance float64
}

// Market executes orders against a curve augmented by the virtual supply and
// balance of a projection.
//
// Market is not safe for concurrent use.
type Market struct {
	log *logrus.Entry

	projection  *projection.Result
	tributes    Tributes
	ordering    Ordering
	probeAmount float64

	state State
}

// New returns a pre-hatch market, with zero supply and balance, calibrated by
// the projection of config.
func New(config projection.Config, tributes Tributes, opts ...Option) (*Market, error) {
	res, err := projection.Compute(config)
	if err != nil {
		return nil, errors.Wrap(err, "error computing projection")
	}
	return newMarket(res, tributes, opts...)
}

// NewFromHatch returns a market calibrated by the projection of a hatch
func NewFromHatch(hatch projection.HatchConfig, tributes Tributes, opts ...Option) (*Market, error) {
	res, err := projection.ComputeHatch(hatch)
	if err != nil {
		return nil, errors.Wrap(err, "error computing hatch projection")
	}
	return newMarket(res, tributes, opts...)
}

func newMarket(res *projection.Result, tributes Tributes, opts ...Option) (*Market, error) {
	if err := tributes.Validate(); err != nil {
		return nil, err
	}

	m := &Market{
		log:         logrus.StandardLogger().WithField("type", "market"),
		projection:  res,
		tributes:    tributes,
		ordering:    BalanceThenBuy,
		probeAmount: DefaultProbeAmount,
	}
	for _, opt := range opts {
		opt(m)
	}

	if !isFinite(m.probeAmount) || m.probeAmount <= 0 {
		return nil, errors.Wrapf(curve.ErrDomain, "probe amount %v must be positive", m.probeAmount)
	}

	switch m.ordering {
	case BalanceThenBuy, PriceBeforeDeposit:
	default:
		return nil, errors.Errorf("unsupported ordering %d", m.ordering)
	}

	return m, nil
}

// State returns a snapshot of the live supply and reserve
func (m *Market) State() State {
	return m.state
}

// Projection returns the projection the market is calibrated by
func (m *Market) Projection() projection.Result {
	return *m.projection
}

func (m *Market) Tributes() Tributes {
	return m.tributes
}

func (m *Market) Ordering() Ordering {
	return m.ordering
}

func (m *Market) ReserveRatio() float64 {
	return m.projection.Config.ReserveRatio
}

// EffectiveSupply is the live token supply plus the virtual supply
func (m *Market) EffectiveSupply() float64 {
	return m.state.TokenSupply + m.projection.VirtualSupply
}

// EffectiveBalance is the live reserve balance plus the virtual balance
func (m *Market) EffectiveBalance() float64 {
	return m.state.ReserveBalance + m.projection.VirtualBalance
}

// SpotBuyPrice is the collateral paid per token for an infinitesimal buy
func (m *Market) SpotBuyPrice() (float64, error) {
	return m.buyPrice(m.EffectiveSupply(), m.EffectiveBalance())
}

// SpotSellPrice is the collateral returned per token for an infinitesimal
// sell, before the exit tribute
func (m *Market) SpotSellPrice() (float64, error) {
	collateral, err := curve.SellReturn(m.EffectiveSupply(), m.EffectiveBalance(), m.probeAmount, m.ReserveRatio())
	if err != nil {
		return 0, err
	}
	return collateral / m.probeAmount, nil
}

// BuyPriceAtSupply is the marginal buy price the market would quote if its
// live token supply were supply, holding the reserve balance fixed.
func (m *Market) BuyPriceAtSupply(supply float64) (float64, error) {
	if !isFinite(supply) || supply < 0 {
		return 0, errors.Wrapf(curve.ErrDomain, "supply %v must be non-negative", supply)
	}
	return m.buyPrice(supply+m.projection.VirtualSupply, m.EffectiveBalance())
}

func (m *Market) buyPrice(effectiveSupply, effectiveBalance float64) (float64, error) {
	tokens, err := curve.BuyReturn(effectiveSupply, effectiveBalance, m.probeAmount, m.ReserveRatio())
	if err != nil {
		return 0, err
	}
	if tokens <= 0 {
		return 0, errors.Wrap(curve.ErrDomain, "no tokens minted for probe amount")
	}
	return m.probeAmount / tokens, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
