package logger

import "github.com/rs/zerolog"

// Logger is the reporting capability handed to pipeline components.
// Messages arrive preformatted; no structured fields are attached.
type Logger interface {
	Warning(msg string)
	Info(msg string)
	Error(msg string)
}

type zerologLogger struct {
	l *zerolog.Logger
}

// New adapts a zerolog logger to the pipeline Logger. A nil logger falls back to L().
func New(l *zerolog.Logger) Logger {
	if l == nil {
		l = L()
	}
	return &zerologLogger{l: l}
}

// Default returns a pipeline Logger backed by the global logger.
func Default() Logger {
	return New(L())
}

func (z *zerologLogger) Warning(msg string) { z.l.Warn().Msg(msg) }
func (z *zerologLogger) Info(msg string)    { z.l.Info().Msg(msg) }
func (z *zerologLogger) Error(msg string)   { z.l.Error().Msg(msg) }

// Nop discards everything. Useful for components whose warnings are not wanted.
func Nop() Logger {
	n := zerolog.Nop()
	return &zerologLogger{l: &n}
}
