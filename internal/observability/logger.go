// Package observability provides structured logging and gateway call tracing.
package observability

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// LevelFor maps a -v count to a slog level: 0 warn, 1 info, 2+ debug.
func LevelFor(verbose int) slog.Level {
	switch {
	case verbose >= 2:
		return slog.LevelDebug
	case verbose == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// NewLogger returns a text logger writing to w at the level for verbose.
func NewLogger(verbose int, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: LevelFor(verbose)}))
}

// OpenLogFile opens (appending) <dir>/pocketlist.log for processes that own
// the terminal, such as the TUI. The caller closes the returned file.
func OpenLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "pocketlist.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // G304: dir from config
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
