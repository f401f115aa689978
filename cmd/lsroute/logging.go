package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/encodeous/tint"
	"github.com/rhartert/lsroute/config"
	slogmulti "github.com/samber/slog-multi"
)

// newLogger returns a logger writing colored logs to out and, if configured,
// JSON logs to a file. The returned function closes the log file.
func newLogger(out io.Writer, cfg config.Config) (*slog.Logger, func() error, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}

	handlers := []slog.Handler{
		tint.NewHandler(out, &tint.Options{
			Level:      level,
			AddSource:  false,
			TimeFormat: "15:04:05",
		}),
	}
	closeLog := func() error { return nil }

	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
		closeLog = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeLog, nil
}
