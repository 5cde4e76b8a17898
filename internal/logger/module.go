package logger

import (
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Module wires the slog logger and routes fx container events through it.
var Module = fx.Options(
	fx.Provide(New),
	fx.WithLogger(NewFxLogger),
)

// NewFxLogger adapts logger for fx lifecycle events.
func NewFxLogger(logger *slog.Logger) fxevent.Logger {
	return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
}
