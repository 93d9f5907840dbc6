package exchange

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/market"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/metrics"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/projection"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/rate"
	abc_sync "github.com/commonsbuild/augmented-bonding-curve/pkg/sync"
)

const (
	metricsStructName = "exchange.service"

	orderEventName = "AbcOrder"

	orderLatencyMetricName    = "Exchange/OrderLatency"
	rejectedOrdersMetricName  = "Exchange/RejectedOrders"
	rateLimitedMetricName     = "Exchange/RateLimitedOrders"
	quoteEventName = "AbcQuote"

	// Metric names are static; the market is an event attribute, since
	// names are caller supplied and unbounded
	spotBuyPriceMetricName  = "Exchange/SpotBuyPrice"
	spotSellPriceMetricName = "Exchange/SpotSellPrice"
)

var (
	ErrMarketNotFound = errors.New("exchange: market not found")
	ErrMarketExists   = errors.New("exchange: market already exists")
	ErrRateLimited    = errors.New("exchange: order rate limited")
)

// Service hosts named markets and serializes the orders placed against each
// of them.
type Service interface {
	// CreateMarket creates a pre-hatch market calibrated by the hatch projection.
	// When tributes are nil, the configured default tributes are used.
	//
	// ErrMarketExists is returned if a market with the name already exists.
	CreateMarket(ctx context.Context, name string, hatch projection.HatchConfig, tributes *market.Tributes, opts ...market.Option) error

	// Buy pays payAmount of collateral into the market
	Buy(ctx context.Context, name string, payAmount float64) (*Receipt, error)

	// Sell sells sellAmount tokens into the market
	Sell(ctx context.Context, name string, sellAmount float64) (*Receipt, error)

	// Quote gets the current spot prices of the market
	Quote(ctx context.Context, name string) (*Quote, error)

	// GetState gets the live supply and reserve of the market
	GetState(ctx context.Context, name string) (*market.State, error)

	// GetProjection gets the projection the market is calibrated by
	GetProjection(ctx context.Context, name string) (*projection.Result, error)

	// ListMarkets lists the names of all markets, sorted
	ListMarkets(ctx context.Context) []string
}

type service struct {
	log  *logrus.Entry
	conf *conf

	limiter     rate.Limiter
	marketLocks *abc_sync.StripedLock

	marketsMu sync.RWMutex
	markets   map[string]*market.Market
}

func NewService(configProvider ConfigProvider) Service {
	conf := configProvider()
	ctx := context.Background()

	return &service{
		log:         logrus.StandardLogger().WithField("type", "exchange/service"),
		conf:        conf,
		limiter:     rate.NewLimiterForRate(conf.maxOrdersPerSecond.Get(ctx)),
		marketLocks: abc_sync.NewStripedLock(uint(conf.lockStripes.Get(ctx))),
		markets:     make(map[string]*market.Market),
	}
}

func (s *service) CreateMarket(ctx context.Context, name string, hatch projection.HatchConfig, tributes *market.Tributes, opts ...market.Option) error {
	log := s.log.WithFields(logrus.Fields{
		"method": "CreateMarket",
		"market": name,
	})

	if len(name) == 0 {
		return errors.New("market name is required")
	}

	if tributes == nil {
		tributes = &market.Tributes{
			Entry: s.conf.defaultEntryTribute.Get(ctx),
			Exit:  s.conf.defaultExitTribute.Get(ctx),
		}
	}

	m, err := market.NewFromHatch(hatch, *tributes, opts...)
	if err != nil {
		log.WithError(err).Info("invalid market parameters")
		return errors.Wrap(err, "error creating market")
	}

	s.marketsMu.Lock()
	defer s.marketsMu.Unlock()

	if _, ok := s.markets[name]; ok {
		return ErrMarketExists
	}
	s.markets[name] = m

	res := m.Projection()
	log.WithFields(logrus.Fields{
		"reserve_ratio":   res.Config.ReserveRatio,
		"virtual_supply":  res.VirtualSupply,
		"virtual_balance": res.VirtualBalance,
		"entry_tribute":   tributes.Entry,
		"exit_tribute":    tributes.Exit,
		"ordering":        m.Ordering().String(),
	}).Info("created market")

	return nil
}

func (s *service) Buy(ctx context.Context, name string, payAmount float64) (*Receipt, error) {
	return s.executeOrder(ctx, name, SideBuy, payAmount)
}

func (s *service) Sell(ctx context.Context, name string, sellAmount float64) (*Receipt, error) {
	return s.executeOrder(ctx, name, SideSell, sellAmount)
}

func (s *service) executeOrder(ctx context.Context, name string, side Side, amount float64) (*Receipt, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "executeOrder")
	defer tracer.End()

	start := time.Now()
	defer func() {
		metrics.RecordDuration(ctx, orderLatencyMetricName, time.Since(start))
	}()

	log := s.log.WithFields(logrus.Fields{
		"method": "executeOrder",
		"market": name,
		"side":   side.String(),
		"amount": amount,
	})

	m, err := s.getMarket(name)
	if err != nil {
		return nil, err
	}

	allowed, err := s.limiter.Allow(name)
	if err != nil {
		log.WithError(err).Warn("failure checking order rate limit")
		tracer.OnError(err)
		return nil, err
	} else if !allowed {
		log.Debug("order rate limited")
		metrics.RecordCount(ctx, rateLimitedMetricName, 1)
		return nil, ErrRateLimited
	}

	defer s.marketLocks.Lock(name)()

	var fill *market.Fill
	switch side {
	case SideBuy:
		fill, err = m.BuyOrder(amount)
	case SideSell:
		fill, err = m.SellOrder(amount)
	default:
		return nil, errors.Errorf("unsupported order side %d", side)
	}
	if err != nil {
		log.WithError(err).Info("order rejected")
		tracer.OnError(err)
		metrics.RecordCount(ctx, rejectedOrdersMetricName, 1)
		return nil, err
	}

	receipt := newReceipt(name, side, fill)

	log.WithFields(logrus.Fields{
		"order_id":   receipt.OrderId.String(),
		"amount_out": receipt.AmountOut,
		"fee":        receipt.Fee,
	}).Debug("order executed")

	tracer.AddAttributes(map[string]interface{}{
		"market": name,
		"side":   side.String(),
	})
	metrics.RecordEvent(ctx, orderEventName, map[string]interface{}{
		"order_id":        receipt.OrderId.String(),
		"market":          name,
		"side":            side.String(),
		"amount_in":       receipt.AmountIn,
		"amount_out":      receipt.AmountOut,
		"fee":             receipt.Fee,
		"token_supply":    receipt.State.TokenSupply,
		"reserve_balance": receipt.State.ReserveBalance,
	})

	return receipt, nil
}

func (s *service) Quote(ctx context.Context, name string) (*Quote, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Quote")
	defer tracer.End()

	m, err := s.getMarket(name)
	if err != nil {
		return nil, err
	}

	defer s.marketLocks.RLock(name)()

	buyPrice, err := m.SpotBuyPrice()
	if err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error getting spot buy price")
	}

	sellPrice, err := m.SpotSellPrice()
	if err != nil {
		tracer.OnError(err)
		return nil, errors.Wrap(err, "error getting spot sell price")
	}

	quote := &Quote{
		Market:           name,
		BuyPrice:         buyPrice,
		SellPrice:        sellPrice,
		State:            m.State(),
		EffectiveSupply:  m.EffectiveSupply(),
		EffectiveBalance: m.EffectiveBalance(),
	}

	metrics.RecordValue(ctx, spotBuyPriceMetricName, buyPrice)
	metrics.RecordValue(ctx, spotSellPriceMetricName, sellPrice)
	metrics.RecordEvent(ctx, quoteEventName, quoteEventAttributes(quote))

	return quote, nil
}

func quoteEventAttributes(quote *Quote) map[string]interface{} {
	return map[string]interface{}{
		"market":            quote.Market,
		"buy_price":         quote.BuyPrice,
		"sell_price":        quote.SellPrice,
		"token_supply":      quote.State.TokenSupply,
		"reserve_balance":   quote.State.ReserveBalance,
		"effective_supply":  quote.EffectiveSupply,
		"effective_balance": quote.EffectiveBalance,
	}
}

func (s *service) GetState(_ context.Context, name string) (*market.State, error) {
	m, err := s.getMarket(name)
	if err != nil {
		return nil, err
	}

	unlock := s.marketLocks.RLock(name)
	state := m.State()
	unlock()

	return &state, nil
}

func (s *service) GetProjection(_ context.Context, name string) (*projection.Result, error) {
	m, err := s.getMarket(name)
	if err != nil {
		return nil, err
	}

	res := m.Projection()
	return &res, nil
}

func (s *service) ListMarkets(_ context.Context) []string {
	s.marketsMu.RLock()
	defer s.marketsMu.RUnlock()

	names := make([]string, 0, len(s.markets))
	for name := range s.markets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *service) getMarket(name string) (*market.Market, error) {
	s.marketsMu.RLock()
	defer s.marketsMu.RUnlock()

	m, ok := s.markets[name]
	if !ok {
		return nil, ErrMarketNotFound
	}
	return m, nil
}
