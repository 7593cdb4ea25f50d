package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Level normalizes a level name to a slog level; anything unrecognized
// (including "") means info.
func Level(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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

// Setup installs a text handler writing to w as the default logger.
func Setup(level string, w io.Writer) {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: Level(level)})
	slog.SetDefault(slog.New(h))
}
