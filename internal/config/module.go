package config

import (
	"log/slog"

	"go.uber.org/fx"
)

// Module exposes configuration loader for fx graphs and logs the effective settings.
var Module = fx.Options(
	fx.Provide(Load),
	fx.Invoke(logSummary),
)

// logSummary logs non-secret settings once the graph is built.
func logSummary(cfg *Config, logger *slog.Logger) {
	notify := "log"
	if cfg.NotifyEndpoint != "" {
		notify = "webhook"
	}
	logger.Info("configuration loaded",
		slog.String("addr", cfg.RunAddress),
		slog.String("notifications", notify),
		slog.Duration("poll_interval", cfg.NotifyPollInterval),
		slog.Int("workers", cfg.WorkerPoolSize),
		slog.Int("batch_size", cfg.NotifyBatchSize),
		slog.Int("max_attempts", cfg.NotifyMaxAttempts),
		slog.Int("fx_overrides", len(cfg.FXRates)),
	)
}
