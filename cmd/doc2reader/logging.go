package main

import (
	"io"
	"log/slog"
)

// newLogger returns a text logger on w. Warnings (missing images, unknown
// media types) show by default; verbose adds debug timings and quiet keeps
// errors only.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
