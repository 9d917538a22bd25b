// Package logger builds the zerolog logger shared by the whole service.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a human readable console logger in dev and JSON lines otherwise.
func New(env string) zerolog.Logger {
	return NewWithWriter(env, os.Stdout)
}

func NewWithWriter(env string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	level := zerolog.InfoLevel
	if env == "" || env == "dev" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "bodega").
		Logger()
}
