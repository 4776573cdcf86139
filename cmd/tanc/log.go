package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const logEnv = "TANC_LOG"

func newHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if a.Key == slog.LevelKey && a.Value.String() == "INFO" {
				return slog.Attr{}
			}
			return a
		},
	})
}

// logLevel is warn, lowered one step per v and raised one step per q.
// A level named in env wins.
func logLevel(v, q int, env string) (slog.Level, error) {
	if env != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(strings.TrimSpace(env))); err != nil {
			return 0, fmt.Errorf("%s: %w", logEnv, err)
		}
		return l, nil
	}
	return slog.LevelWarn + slog.Level(4*(q-v)), nil
}

// setupLog builds cfg.Log from the log options.  Logs go to stderr and
// to the log file if there is one.
func (cfg *MainConfig) setupLog(stderr io.Writer) error {
	level, err := logLevel(cfg.V, cfg.Q, os.Getenv(logEnv))
	if err != nil {
		return err
	}
	var ws []io.Writer
	if !cfg.DontLogStderr {
		ws = append(ws, stderr)
	}
	if cfg.LogFile != "" {
		flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
		if cfg.TruncLog {
			flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		}
		f, err := os.OpenFile(cfg.LogFile, flags, 0644)
		if err != nil {
			return fmt.Errorf("unable to open log file: %w", err)
		}
		ws = append(ws, f)
		cfg.CloseLog = f.Close
	}
	if len(ws) == 0 {
		cfg.Log = slog.New(slog.DiscardHandler)
	} else {
		cfg.Log = slog.New(newHandler(io.MultiWriter(ws...), level))
	}
	slog.SetDefault(cfg.Log)
	return nil
}
