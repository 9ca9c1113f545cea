package logger

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/storerating/internal/config"
)

// Module wires slog logger for dependency injection.
var Module = fx.Provide(newLogger)

func newLogger(cfg *config.Config) *slog.Logger {
	return New(cfg.LogLevel)
}
