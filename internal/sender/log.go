package sender

import (
	"context"
	"log/slog"

	"github.com/gyaneshwarpardhi/pianodispatch/internal/dispatch"
)

// LogSink writes each event to a structured logger. Useful in development and
// as an audit trail next to a real backend.
type LogSink struct {
	logger *slog.Logger
	level  slog.Level
}

func NewLogSink(logger *slog.Logger, level slog.Level) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger, level: level}
}

func (s *LogSink) Type() string { return "log" }

func (s *LogSink) Send(ctx context.Context, ev dispatch.OutputEvent) error {
	s.logger.Log(ctx, s.level, "analytics event", "name", ev.Name, "data", ev.Data)
	return nil
}
