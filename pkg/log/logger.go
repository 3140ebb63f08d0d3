package log

import (
	"log/slog"
	"os"
)

// New constructs a JSON slog.Logger on stderr preconfigured at info
// level, tagged with the embedding component's identity
func New(component, version string) *slog.Logger {
	return NewWithLevel(component, version, slog.LevelInfo)
}

// NewWithLevel constructs a JSON slog.Logger at the provided level
func NewWithLevel(component, version string, lvl slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})

	return slog.New(handler).With(
		slog.String("component", component),
		slog.String("version", version))
}
