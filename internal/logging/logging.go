// Package logging sets up the process-wide structured logger and knows
// how to render an error, oops-wrapped or plain, as one of its records.
package logging

import (
	"log/slog"
	"os"

	"github.com/samber/oops"
)

// Setup installs and returns the process's default slog.Logger: JSON
// output in debug mode (so it composes with tooling), a terser text
// handler otherwise.
func Setup(debug bool) *slog.Logger {
	level := slog.LevelInfo
	var handler slog.Handler
	if debug {
		level = slog.LevelDebug
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// LogError reports err at error level, pulling an oops error's code and
// context out into structured attributes when one is present, and
// falling back to the plain error string otherwise.
func LogError(logger *slog.Logger, msg string, err error) {
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs := []any{"error", oopsErr.Error()}
		if code := oopsErr.Code(); code != "" {
			attrs = append(attrs, "code", code)
		}

		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
		logger.Error(msg, attrs...)
		return
	}
	logger.Error(msg, "error", err)
}
