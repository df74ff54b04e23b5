package events

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
)

// slogAdapter routes watermill logging through slog.
type slogAdapter struct {
	logger *slog.Logger
}

// NewWatermillLogger wraps an slog logger as a watermill.LoggerAdapter.
func NewWatermillLogger(logger *slog.Logger) watermill.LoggerAdapter {
	return &slogAdapter{logger: logger.With("component", "watermill")}
}

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error(msg, append(attrs(fields), "error", err)...)
}

// Info is mapped to debug because watermill is chatty.
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, attrs(fields)...)
}

func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, attrs(fields)...)
}

func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Log(context.Background(), slog.LevelDebug-4, msg, attrs(fields)...)
}

func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{logger: a.logger.With(attrs(fields)...)}
}

func attrs(fields watermill.LogFields) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}

var _ watermill.LoggerAdapter = (*slogAdapter)(nil)
