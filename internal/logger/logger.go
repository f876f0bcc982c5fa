package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	base     zerolog.Logger
	initOnce sync.Once
)

// Init configures the global JSON logger used by the CLI, the HTTP layer and,
// through New/Default, the trade pipeline.
//
// Environment variables (optional):
//   - LOG_LEVEL: debug|info|warn|error (default: info)
//   - LOG_PRETTY: true|false (default: false)
func Init() {
	configure()
	initOnce.Do(func() {})
}

func configure() {
	level := parseLevel(getenv("LOG_LEVEL", "info"))
	pretty := strings.EqualFold(getenv("LOG_PRETTY", "false"), "true")

	zerolog.TimeFieldFormat = time.RFC3339Nano
	base = newBase(os.Stdout, level, pretty)
}

func newBase(out io.Writer, level zerolog.Level, pretty bool) zerolog.Logger {
	w := out
	if pretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Str("service", "fxtrades").Logger().Level(level)
}

// L returns the global logger, running Init on first use if nobody has.
func L() *zerolog.Logger {
	initOnce.Do(configure)
	return &base
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
