package helpers

import (
	"io"
	"log/slog"
)

// NewNoopLogger returns a logger that discards everything. Used by tests and
// as the constructor fallback when no logger option is given.
func NewNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
