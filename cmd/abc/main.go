package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/commonsbuild/augmented-bonding-curve/pkg/exchange"
	"github.com/commonsbuild/augmented-bonding-curve/pkg/metrics"
)

var (
	configPath   = flag.String("config", "abc.yaml", "configuration file path")
	scenarioPath = flag.String("scenario", "", "optional order scenario file path")
	samples      = flag.Int("samples", -1, "number of curve samples, overriding the config when non-negative")
)

func main() {
	flag.Parse()
	os.Exit(execute())
}

// execute runs the command and returns its exit code. Deferred shutdowns run
// before main exits.
func execute() int {
	logger := logrus.StandardLogger().WithField("type", "cmd/abc")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).Warn("failed to load .env file")
	}

	v := viper.New()
	config, err := loadConfig(v, *configPath)
	if err != nil {
		logger.WithError(err).Error("failed to load config")
		return 1
	}

	if *samples >= 0 {
		config.Samples = *samples
	}

	var metricsProvider *newrelic.Application
	if len(config.NewRelicLicenseKey) > 0 {
		metricsProvider, err = newrelic.NewApplication(
			newrelic.ConfigAppName(config.AppName),
			newrelic.ConfigLicense(config.NewRelicLicenseKey),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.WithError(err).Error("error connecting to new relic")
			return 1
		}
		defer metricsProvider.Shutdown(defaultShutdownTimeout)
	}

	configureLogger(config, metricsProvider)

	ctx := metrics.NewContext(context.Background(), metricsProvider)

	var scenario *Scenario
	if len(*scenarioPath) > 0 {
		scenario, err = loadScenario(*scenarioPath)
		if err != nil {
			logger.WithError(err).Error("failed to load scenario")
			return 1
		}
	}

	if err := run(ctx, os.Stdout, exchange.NewService(exchange.WithViperConfigs(v)), config, scenario); err != nil {
		logger.WithError(err).Error("failed to run")
		return 1
	}
	return 0
}

func configureLogger(config *Config, metricsProvider *newrelic.Application) {
	if metricsProvider != nil {
		logrus.SetFormatter(metrics.NewCustomNewRelicLogFormatter(metricsProvider, &logrus.JSONFormatter{}))
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.LogLevel).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}

	if len(config.LogFile) > 0 {
		logrus.SetOutput(&lumberjack.Logger{
			Filename:   config.LogFile,
			MaxSize:    100,
			MaxBackups: 3,
			Compress:   true,
		})
	} else {
		logrus.SetOutput(os.Stderr)
	}
}
