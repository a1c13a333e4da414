// Package providers contains dependency injection providers for the TopTen server.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/toptenapp/topten-server/internal/config"
	"github.com/toptenapp/topten-server/internal/logger"
	"github.com/toptenapp/topten-server/internal/metrics"
)

// Version is reported by /health and the OpenAPI document. Set with -ldflags.
var Version = "dev"

// ProvideConfig returns a provider that loads configuration from args.
func ProvideConfig(args []string) do.Provider[*config.Config] {
	return func(do.Injector) (*config.Config, error) {
		return config.LoadConfig(args)
	}
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting TopTen Server",
		"version", Version,
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"seed_path", cfg.Data.SeedPath,
	)

	return log, nil
}

// ProvideSlogLogger provides access to the underlying slog.Logger for packages that need it.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}

// ProvideMetrics provides the Prometheus registry shared by the API, persister and suggestions.
func ProvideMetrics(do.Injector) (*metrics.Metrics, error) {
	return metrics.New(), nil
}
