package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// envLogLevel selects the minimum log level (debug, info, warn, error).
const envLogLevel = "HEATMAP_LOG_LEVEL"

// logger wraps zerolog for structured logging.
type logger struct {
	z zerolog.Logger
}

// newLogger creates a logger with console output on stderr.
func newLogger() *logger {
	noColor := os.Getenv("NO_COLOR") != ""
	if fi, err := os.Stderr.Stat(); err == nil && (fi.Mode()&os.ModeCharDevice) == 0 {
		noColor = true
	}
	return newLoggerTo(os.Stderr, parseLevel(os.Getenv(envLogLevel)), noColor)
}

func newLoggerTo(w io.Writer, level zerolog.Level, noColor bool) *logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}
	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &logger{z: zl}
}

// parseLevel falls back to info for empty or unknown values.
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// with returns a child logger that stamps every entry with key=val.
func (l *logger) with(key, val string) *logger {
	return &logger{z: l.z.With().Str(key, val).Logger()}
}

func (l *logger) debug(msg string) { l.z.Debug().Msg(msg) }
func (l *logger) info(msg string)  { l.z.Info().Msg(msg) }
func (l *logger) warn(msg string)  { l.z.Warn().Msg(msg) }
func (l *logger) ok(msg string)    { l.z.Info().Msg(msg) }
func (l *logger) err(msg string)   { l.z.Error().Msg(msg) }

func (l *logger) debugf(format string, args ...any) { l.debug(fmt.Sprintf(format, args...)) }
func (l *logger) infof(format string, args ...any)  { l.info(fmt.Sprintf(format, args...)) }
func (l *logger) warnf(format string, args ...any)  { l.warn(fmt.Sprintf(format, args...)) }
func (l *logger) okf(format string, args ...any)    { l.ok(fmt.Sprintf(format, args...)) }
