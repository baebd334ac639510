// Package log provides prefixed, colored component loggers.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/beka-birhanu/vinom-nav/config"
	"github.com/beka-birhanu/vinom-nav/game"
)

var (
	ErrNilWriter   = errors.New("log writer is nil")
	ErrEmptyPrefix = errors.New("log prefix is empty")
)

// Logger writes text records tagged with a colored component prefix.
type Logger struct {
	slog *slog.Logger
	tag  string
}

var _ game.Logger = (*Logger)(nil)

// New creates a Logger that writes to w. Every record carries prefix
// rendered in color.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, ErrNilWriter
	}
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &Logger{
		slog: slog.New(h),
		tag:  fmt.Sprintf("%s[%s]%s", color, prefix, config.ColorReset),
	}, nil
}

func (l *Logger) Info(msg string) {
	l.slog.Info(l.format(config.LogInfoColor, "INFO", msg))
}

func (l *Logger) Warning(msg string) {
	l.slog.Warn(l.format(config.LogWarnColor, "WARNING", msg))
}

func (l *Logger) Error(msg string) {
	l.slog.Error(l.format(config.LogErrorColor, "ERROR", msg))
}

// With returns a Logger that adds the key value pairs to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...), tag: l.tag}
}

func (l *Logger) format(color, level, msg string) string {
	return fmt.Sprintf("%s %s[%s]%s %s", l.tag, color, level, config.LogColorReset, msg)
}
