package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/exchange"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/testutil"
)

func TestLinspace(t *testing.T) {
	assert.Nil(t, linspace(0, 1, 0))
	assert.Equal(t, []float64{3}, linspace(3, 10, 1))
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, linspace(0, 1, 5))
}

func TestRun(t *testing.T) {
	defer testutil.DisableLogging()()

	config := defaultConfig
	config.Samples = 5

	scenario := &Scenario{
		Orders: []ScenarioOrder{
			{Side: "buy", Amount: 100},
			{Side: "sell", Amount: 10},
			{Side: "sell", Amount: 1e12},
		},
	}

	var out bytes.Buffer
	err := run(context.Background(), &out, exchange.NewService(exchange.WithEnvConfigs()), &config, scenario)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Virtual Supply")
	assert.Contains(t, output, "9536102.7689")
	assert.Contains(t, output, "supply,vanilla_price,virtual_price,buy_price")
	assert.Contains(t, output, "rejected")
	assert.Contains(t, output, "spot buy price")

	var samples int
	for _, line := range strings.Split(output, "\n") {
		if len(line) > 0 && strings.Count(line, ",") == 3 && !strings.HasPrefix(line, "supply") {
			samples++
		}
	}
	assert.Equal(t, 5, samples)
}

func TestRun_DuplicateMarket(t *testing.T) {
	defer testutil.DisableLogging()()

	config := defaultConfig
	config.Samples = 0

	service := exchange.NewService(exchange.WithEnvConfigs())

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, service, &config, nil))
	assert.ErrorIs(t, run(context.Background(), &out, service, &config, nil), exchange.ErrMarketExists)
}

func TestRun_RetriesRateLimitedOrders(t *testing.T) {
	defer testutil.DisableLogging()()

	t.Setenv(exchange.MaxOrdersPerSecondConfigEnvName, "1")

	config := defaultConfig
	config.Samples = 0
	config.OrderAttempts = 10
	config.OrderRetryDelay = 10 * time.Millisecond

	scenario := &Scenario{
		Orders: []ScenarioOrder{
			{Side: "buy", Amount: 100},
			{Side: "buy", Amount: 100},
		},
	}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, exchange.NewService(exchange.WithEnvConfigs()), &config, scenario))

	output := out.String()
	assert.Equal(t, 2, strings.Count(output, " ok\n"))
	assert.NotContains(t, output, "rejected")
}
