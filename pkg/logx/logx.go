// Package logx is the process-wide leveled logger, a thin printf facade over
// zerolog so call sites stay one-liners.
package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

type Level = zerolog.Level

const (
	LevelDebug = zerolog.DebugLevel
	LevelInfo  = zerolog.InfoLevel
	LevelWarn  = zerolog.WarnLevel
	LevelError = zerolog.ErrorLevel
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// SetLevel sets the global minimum level.
func SetLevel(l Level) {
	logger = logger.Level(l)
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

func Debug(msg string)                  { logger.Debug().Msg(msg) }
func Debugf(format string, args ...any) { logger.Debug().Msgf(format, args...) }

func Info(msg string)                  { logger.Info().Msg(msg) }
func Infof(format string, args ...any) { logger.Info().Msgf(format, args...) }

func Warn(msg string)                  { logger.Warn().Msg(msg) }
func Warnf(format string, args ...any) { logger.Warn().Msgf(format, args...) }

func Error(msg string)                  { logger.Error().Msg(msg) }
func Errorf(format string, args ...any) { logger.Error().Msgf(format, args...) }

func Fatal(msg string)                  { logger.Fatal().Msg(msg) }
func Fatalf(format string, args ...any) { logger.Fatal().Msgf(format, args...) }
