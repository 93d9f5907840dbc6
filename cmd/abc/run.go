package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/exchange"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/market"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/projection"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/retry"
)

const (
	defaultShutdownTimeout = 5 * time.Second
	maxOrderRetryDelay     = 5 * time.Second
)

// run creates the configured market, then writes its projection, sampled
// price curves and the receipts of the scenario's orders to out
func run(ctx context.Context, out io.Writer, service exchange.Service, config *Config, scenario *Scenario) error {
	ordering, err := config.Market.ordering()
	if err != nil {
		return err
	}

	name := config.Market.Name
	tributes := config.Market.tributes()
	err = service.CreateMarket(ctx, name, config.Market.hatch(), &tributes, market.WithOrdering(ordering))
	if err != nil {
		return err
	}

	res, err := service.GetProjection(ctx, name)
	if err != nil {
		return err
	}

	if err := writeProjection(out, res); err != nil {
		return err
	}

	if config.Samples > 0 {
		// The chart is sampled on a pre-hatch market, independent of any
		// scenario orders
		preHatch, err := market.NewFromHatch(config.Market.hatch(), tributes, market.WithOrdering(ordering))
		if err != nil {
			return err
		}

		if err := writeCurveSamples(out, res, preHatch, config.Samples, config.SampleMaxSupply); err != nil {
			return err
		}
	}

	if scenario != nil {
		if err := replayScenario(ctx, out, service, config, scenario); err != nil {
			return err
		}
	}

	return nil
}

func writeProjection(out io.Writer, res *projection.Result) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range []struct {
		name  string
		value float64
	}{
		{"Seed Supply", res.Config.InitialSupply},
		{"Seed Balance", res.Config.InitialBalance},
		{"Seed Price", res.Config.InitialPrice},
		{"Seed Marketcap", res.SeedMarketCap},
		{"Expected Price", res.ExpectedPrice},
		{"Expected Marketcap", res.ExpectedMarketCap},
		{"Projected Supply", res.ProjectedSupply},
		{"Projected Balance", res.ProjectedBalance},
		{"Virtual Supply", res.VirtualSupply},
		{"Virtual Balance", res.VirtualBalance},
	} {
		fmt.Fprintf(w, "%s\t%.4f\n", row.name, row.value)
	}
	fmt.Fprintln(w)
	return w.Flush()
}

// linspace returns count evenly spaced values over [start, stop]
func linspace(start, stop float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []float64{start}
	}

	values := make([]float64, count)
	step := (stop - start) / float64(count-1)
	for i := range values {
		values[i] = start + float64(i)*step
	}
	values[count-1] = stop
	return values
}

func writeCurveSamples(out io.Writer, res *projection.Result, m *market.Market, samples int, maxSupply float64) error {
	fmt.Fprintln(out, "supply,vanilla_price,virtual_price,buy_price")
	for _, supply := range linspace(0, maxSupply, samples) {
		vanilla, err := res.VanillaPriceAt(supply)
		if err != nil {
			return errors.Wrapf(err, "error sampling vanilla curve at %v", supply)
		}

		virtual, err := res.VirtualPriceAt(supply)
		if err != nil {
			return errors.Wrapf(err, "error sampling virtual curve at %v", supply)
		}

		buyPrice, err := m.BuyPriceAtSupply(supply)
		if err != nil {
			return errors.Wrapf(err, "error sampling buy price at %v", supply)
		}

		fmt.Fprintf(out, "%g,%g,%g,%g\n", supply, vanilla, virtual, buyPrice)
	}
	fmt.Fprintln(out)
	return nil
}

func replayScenario(ctx context.Context, out io.Writer, service exchange.Service, config *Config, scenario *Scenario) error {
	name := config.Market.Name
	strategies := []retry.Strategy{
		retry.RetriableErrors(exchange.ErrRateLimited),
		retry.Limit(config.OrderAttempts),
		retry.Backoff(retry.ExponentialDelay(config.OrderRetryDelay, 2), maxOrderRetryDelay),
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "order\tside\tamount_in\tamount_out\tfee\ttoken_supply\treserve_balance\tstatus")

	for _, order := range scenario.Orders {
		side, err := order.side()
		if err != nil {
			return err
		}

		var receipt *exchange.Receipt
		_, err = retry.Retry(ctx, func(ctx context.Context) error {
			var err error
			switch side {
			case exchange.SideBuy:
				receipt, err = service.Buy(ctx, name, order.Amount)
			case exchange.SideSell:
				receipt, err = service.Sell(ctx, name, order.Amount)
			}
			return err
		}, strategies...)

		// Rejected orders are reported, not fatal
		if err != nil {
			fmt.Fprintf(w, "-\t%s\t%.6f\t-\t-\t-\t-\trejected: %v\n", side, order.Amount, err)
			continue
		}

		fmt.Fprintf(
			w,
			"%s\t%s\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\tok\n",
			receipt.OrderId,
			receipt.Side,
			receipt.AmountIn,
			receipt.AmountOut,
			receipt.Fee,
			receipt.State.TokenSupply,
			receipt.State.ReserveBalance,
		)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	quote, err := service.Quote(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nspot buy price %.6f, spot sell price %.6f\n", quote.BuyPrice, quote.SellPrice)
	return nil
}
