package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/polkiloo/verigate/internal/config"
)

// New creates a preconfigured JSON slog.Logger at the configured level.
func New(cfg *config.Config) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)})
	return slog.New(handler)
}

// ParseLevel maps a level name to slog.Level; unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
