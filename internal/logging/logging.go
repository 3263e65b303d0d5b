// Package logging wires the process-wide slog.Logger every other package
// logs through.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON-handler slog.Logger as the process default, at
// debug level when debug is true and info level otherwise.
func Setup(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}
