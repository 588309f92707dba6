package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the service-wide JSON logger. Debug records are kept only in dev.
func NewLogger(env string) *slog.Logger {
	return newLogger(env, os.Stdout)
}

func newLogger(env string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "dev" {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	return slog.New(NewTraceHandler(slog.NewJSONHandler(w, opts))).
		With("service", ServiceName, "env", env)
}
