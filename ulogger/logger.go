// Package ulogger wraps zerolog the way the teacher's util.NewZeroLogger
// does: a service-tagged, pretty-by-default console logger that every
// long-lived component takes by constructor injection rather than reaching
// for a package-level global.
package ulogger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the narrow interface every metanode component depends on.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	With(fields map[string]interface{}) Logger
}

type zLogger struct {
	zerolog.Logger
	service string
}

// New builds a pretty console logger tagged with service. level is one of
// debug/info/warn/error/fatal; unrecognised values fall back to info.
func New(service string, level string) Logger {
	if service == "" {
		service = "metanode"
	}

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	output.FormatTimestamp = func(i interface{}) string {
		s, _ := i.(string)
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return s
		}
		return t.Format("15:04:05")
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("| %-14s| %v", service, i)
	}

	l := zerolog.New(output).With().Timestamp().Logger().Level(parseLevel(level))

	return &zLogger{Logger: l, service: service}
}

// NewJSON builds a plain JSON logger, for production deployments that ship
// logs to a collector rather than a terminal.
func NewJSON(service string, level string) Logger {
	l := zerolog.New(os.Stdout).With().Str("service", service).Timestamp().Logger().Level(parseLevel(level))
	return &zLogger{Logger: l, service: service}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "FATAL":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func (z *zLogger) Debugf(format string, args ...interface{}) { z.Logger.Debug().Msgf(format, args...) }
func (z *zLogger) Infof(format string, args ...interface{})  { z.Logger.Info().Msgf(format, args...) }
func (z *zLogger) Warnf(format string, args ...interface{})  { z.Logger.Warn().Msgf(format, args...) }
func (z *zLogger) Errorf(format string, args ...interface{}) { z.Logger.Error().Msgf(format, args...) }
func (z *zLogger) Fatalf(format string, args ...interface{}) { z.Logger.Fatal().Msgf(format, args...) }

func (z *zLogger) With(fields map[string]interface{}) Logger {
	ctx := z.Logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &zLogger{Logger: ctx.Logger(), service: z.service}
}

// Nop returns a logger that discards everything, for tests that don't care
// about log output.
func Nop() Logger {
	return &zLogger{Logger: zerolog.Nop(), service: "nop"}
}
