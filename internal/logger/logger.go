package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/polkiloo/storefront/internal/config"
)

const serviceName = "storefront"

// New creates a JSON slog.Logger writing to stdout at the configured level.
func New(cfg *config.Config) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg.LogLevel)
}

// NewWithWriter creates a JSON slog.Logger tagged with the service name.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("service", serviceName))
}
