package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	models "github.com/Suvan-goel/Forma-Mobile-Fitness-App"
)

// zerologLogger adapts a zerolog.Logger to the models.Logger interface.
type zerologLogger struct {
	log zerolog.Logger
}

// newLogger creates a console logger at the given level. Diagnostics go to
// stderr so they never interleave with the progress line on stdout.
func newLogger(level string) models.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()

	return &zerologLogger{log: zl}
}

func (l *zerologLogger) Debug(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *zerologLogger) Info(msg string, keysAndValues ...any) {
	l.log.Info().Fields(keysAndValues).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, keysAndValues ...any) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}

func (l *zerologLogger) Error(msg string, keysAndValues ...any) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}

// Ensure zerologLogger implements models.Logger.
var _ models.Logger = (*zerologLogger)(nil)
