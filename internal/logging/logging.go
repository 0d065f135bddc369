// Package logging configures the module's structured logger, grounded
// on MrWong99-glyphoxa's slog.NewTextHandler setup in cmd/glyphoxa/main.go.
package logging

import (
	"log/slog"
	"os"
)

// Level names accepted by Setup, matching glyphoxa's config.LogLevel values.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Setup installs a text-handler slog.Logger writing to stderr at the
// given level as the process default, and returns it for callers that
// want a scoped reference.
func Setup(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case LevelDebug:
		lvl = slog.LevelDebug
	case LevelWarn:
		lvl = slog.LevelWarn
	case LevelError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// Component returns a logger scoped to a pipeline component, tagging
// every record with a "component" attribute — the structured-logging
// equivalent of xsjk-Aethernet's "[MAC%x]" bracketed log-line tags.
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}
