package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/exchange"
)

// Scenario is a sequence of orders replayed against the configured market
type Scenario struct {
	Orders []ScenarioOrder `yaml:"orders"`
}

type ScenarioOrder struct {
	Side   string  `yaml:"side"`
	Amount float64 `yaml:"amount"`
}

func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading scenario")
	}
	return parseScenario(data)
}

func parseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, errors.Wrap(err, "error parsing scenario")
	}

	for i, order := range scenario.Orders {
		if _, err := order.side(); err != nil {
			return nil, errors.Wrapf(err, "order %d", i)
		}
		if order.Amount < 0 {
			return nil, errors.Errorf("order %d: amount must be non-negative", i)
		}
	}

	return &scenario, nil
}

func (o *ScenarioOrder) side() (exchange.Side, error) {
	switch strings.ToLower(o.Side) {
	case "buy":
		return exchange.SideBuy, nil
	case "sell":
		return exchange.SideSell, nil
	}
	return exchange.SideUnknown, errors.Errorf("unknown side %q", o.Side)
}
