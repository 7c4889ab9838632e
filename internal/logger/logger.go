// Package logger builds the slog.Logger every component receives. Records
// fan out to the console and, optionally, a size-rotated log file.
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects log level, outputs and formats.
type Config struct {
	Level          string `yaml:"level" env:"LEVEL"`
	ConsoleEnabled bool   `yaml:"console_enabled" env:"CONSOLE_ENABLED"`
	ConsoleFormat  string `yaml:"console_format" env:"CONSOLE_FORMAT"` // text or json
	FileEnabled    bool   `yaml:"file_enabled" env:"FILE_ENABLED"`
	FilePath       string `yaml:"file_path" env:"FILE_PATH"`
	FileFormat     string `yaml:"file_format" env:"FILE_FORMAT"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb" env:"FILE_MAX_SIZE_MB"`
	FileMaxBackups int    `yaml:"file_max_backups" env:"FILE_MAX_BACKUPS"`
	FileMaxAgeDays int    `yaml:"file_max_age_days" env:"FILE_MAX_AGE_DAYS"`
}

// DefaultConfig logs INFO as text to the console only.
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FilePath:       "logs/spellcrawl.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// New builds a logger writing console output to console. The returned
// close function releases the log file, if any.
func New(cfg Config, console io.Writer) (*slog.Logger, func() error) {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	closer := func() error { return nil }

	var handlers []slog.Handler
	if cfg.ConsoleEnabled && console != nil {
		handlers = append(handlers, newHandler(console, cfg.ConsoleFormat, opts))
	}
	if cfg.FileEnabled {
		file := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.FileMaxSizeMB,
			MaxBackups: cfg.FileMaxBackups,
			MaxAge:     cfg.FileMaxAgeDays,
		}
		handlers = append(handlers, newHandler(file, cfg.FileFormat, opts))
		closer = file.Close
	}

	switch len(handlers) {
	case 0:
		return slog.New(slog.NewTextHandler(io.Discard, opts)), closer
	case 1:
		return slog.New(handlers[0]), closer
	default:
		return slog.New(newMultiHandler(handlers...)), closer
	}
}

// Discard returns a logger that drops everything. Tests and library
// callers without a logger use it.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// multiHandler writes each record to every handler enabled for its level.
type multiHandler struct {
	handlers []slog.Handler
}

func newMultiHandler(handlers ...slog.Handler) *multiHandler {
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return newMultiHandler(handlers...)
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return newMultiHandler(handlers...)
}
