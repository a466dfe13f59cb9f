// Package logger builds the application's slog logger.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogsentry "github.com/samber/slog-sentry/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions enables a size-rotated log file next to stdout.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Options configures New.
type Options struct {
	Level  string
	Format string // json or text
	Output io.Writer
	File   FileOptions
	// Sentry forwards records at SentryLevel and above to the current Sentry hub.
	Sentry      bool
	SentryLevel slog.Level
}

// Logger is a slog.Logger whose level can be changed at runtime.
type Logger struct {
	*slog.Logger
	level   *slog.LevelVar
	closers []io.Closer
}

// New creates a Logger writing to Output (stdout by default), and optionally
// to a rotated file and Sentry. Sensitive attributes are masked on every sink.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	l := &Logger{level: levelVar}

	handlers := []slog.Handler{newFormatHandler(out, opts.Format, levelVar)}

	if opts.File.Path != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
		}
		l.closers = append(l.closers, file)
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: levelVar}))
	}

	if opts.Sentry {
		sentryLevel := opts.SentryLevel
		if sentryLevel == 0 {
			sentryLevel = slog.LevelError
		}
		handlers = append(handlers, slogsentry.Option{Level: sentryLevel}.NewSentryHandler())
	}

	l.Logger = slog.New(NewMaskingHandler(newFanoutHandler(handlers...)))

	return l, nil
}

// SetLevel changes the minimum level of every sink except Sentry.
func (l *Logger) SetLevel(level string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if l.level.Level() != parsed {
		l.level.Set(parsed)
		l.Info("log level changed", slog.String("level", parsed.String()))
	}
	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// Close releases file sinks.
func (l *Logger) Close() error {
	var errs []error
	for _, c := range l.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// ParseLevel maps debug, info, warn and error to slog levels. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

func newFormatHandler(w io.Writer, format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
