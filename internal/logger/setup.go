package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"

	"github.com/tu10ng/vrpmock/internal/config"
)

// Setup builds the process logger from the configured targets. Each
// target becomes a tint handler (colorized on a stdout TTY, plain for
// files); multiple targets fan out through Fanout. quiet discards
// everything, used by the test suites.
func Setup(configs []config.LoggerConfig, quiet bool) *slog.Logger {
	if quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var handlers []slog.Handler
	for _, cfg := range configs {
		if cfg.Stdout {
			handlers = append(handlers, newHandler(os.Stdout, cfg, !isatty.IsTerminal(os.Stdout.Fd())))
		}
		if cfg.File != "" {
			file, err := openLogFile(cfg.File)
			if err != nil {
				log.Printf("Skipping log target %s: %v", cfg.File, err)
				continue
			}
			handlers = append(handlers, newHandler(file, cfg, true))
		}
	}

	var logger *slog.Logger
	switch len(handlers) {
	case 0:
		logger = slog.New(tint.NewHandler(os.Stdout, nil))
	case 1:
		logger = slog.New(handlers[0])
	default:
		logger = slog.New(NewFanout(handlers...))
	}

	slog.SetDefault(logger)
	return logger
}

func newHandler(w io.Writer, cfg config.LoggerConfig, noColor bool) slog.Handler {
	timeFormat := time.TimeOnly
	if cfg.TimeFormat != "" {
		timeFormat = cfg.TimeFormat
	}

	return tint.NewHandler(w, &tint.Options{
		NoColor:    noColor,
		Level:      parseLogLevel(cfg.Level),
		AddSource:  cfg.Source,
		TimeFormat: timeFormat,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if cfg.HideTime && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
