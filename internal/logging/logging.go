// Package logging configures log/slog for the stackform CLI.
package logging

import (
	"io"
	"log"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
)

// New returns a tint logger writing to w at level. Colors follow
// fatih/color's terminal detection.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    color.NoColor,
	}))
}

// Setup installs a tint logger as the slog default and routes the standard
// log package through it.
func Setup(w io.Writer, level slog.Leveler) *slog.Logger {
	logger := New(w, level)
	slog.SetDefault(logger)

	lw := &slogWriter{}
	log.Default().SetOutput(lw)
	log.SetOutput(lw)
	return logger
}

// slogWriter forwards standard log output to slog, using a leading level
// word when present.
type slogWriter struct{}

func (w *slogWriter) Write(p []byte) (n int, err error) {
	if len(p) > 6 && string(p[:5]) == "ERROR" {
		slog.Error(string(p[6:]))
		return len(p), nil
	} else if len(p) > 5 && string(p[:4]) == "WARN" {
		slog.Warn(string(p[5:]))
		return len(p), nil
	} else if len(p) > 5 && string(p[:4]) == "INFO" {
		slog.Info(string(p[5:]))
		return len(p), nil
	}

	slog.Debug(string(p))
	return len(p), nil
}
