// Package logging constructs the run's slog handle.
//
// Log lines go to two destinations: the console, and a size-rotated file so
// scheduler-triggered runs leave a persistent trace. Components receive the
// handle by injection; nothing logs through package-level state.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a text logger writing to stdout and, when path is non-empty, a
// rotating file at path. The returned closer flushes and closes the file
// sink; it is safe to call even for a console-only logger.
func New(path string, level slog.Level) (*slog.Logger, io.Closer) {
	var out io.Writer = os.Stdout
	closer := io.Closer(nopCloser{})

	if path != "" {
		file := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
