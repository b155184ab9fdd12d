package utilities

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/antonio-alexander/go-employee-stats/internal"

	"github.com/rs/zerolog"
)

type Level int

const (
	Error Level = 1
	Info  Level = 2
	Debug Level = 3
	Trace Level = 4
)

func (l Level) String() string {
	switch l {
	default:
		return ""
	case Error:
		return "error"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	default:
		return zerolog.ErrorLevel
	case Info:
		return zerolog.InfoLevel
	case Debug:
		return zerolog.DebugLevel
	case Trace:
		return zerolog.TraceLevel
	}
}

type Logger interface {
	Error(ctx context.Context, format string, v ...any)
	Info(ctx context.Context, format string, v ...any)
	Debug(ctx context.Context, format string, v ...any)
	Trace(ctx context.Context, format string, v ...any)
}

type logger struct {
	writer io.Writer
	log    zerolog.Logger
	config struct {
		Level  Level
		Format string
	}
}

func atoLogLevel(a string) Level {
	switch strings.ToLower(a) {
	default:
		return Error
	case "info":
		return Info
	case "debug":
		return Debug
	case "trace":
		return Trace
	}
}

// NewLogger creates a zerolog backed logger, an io.Writer can be
// provided as a parameter (stdout is used otherwise)
func NewLogger(parameters ...any) interface {
	internal.Configurer
	Logger
} {
	l := &logger{writer: os.Stdout}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case io.Writer:
			l.writer = p
		}
	}
	l.config.Level = Error
	l.build()
	return l
}

func (l *logger) build() {
	writer := l.writer
	if l.config.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: l.writer, NoColor: true}
	}
	if l.config.Level == Trace && zerolog.GlobalLevel() > zerolog.TraceLevel {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}
	l.log = zerolog.New(writer).
		Level(l.config.Level.zerolog()).
		With().
		Timestamp().
		Logger()
}

func (l *logger) Configure(envs map[string]string) error {
	l.config.Level = Error
	if logLevel, ok := envs["LOG_LEVEL"]; ok {
		l.config.Level = atoLogLevel(logLevel)
	}
	if logFormat, ok := envs["LOG_FORMAT"]; ok {
		l.config.Format = strings.ToLower(logFormat)
	}
	l.build()
	return nil
}

func (l *logger) event(ctx context.Context, event *zerolog.Event) *zerolog.Event {
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		event = event.Str("correlation_id", correlationId)
	}
	return event
}

func (l *logger) Error(ctx context.Context, format string, v ...any) {
	l.event(ctx, l.log.Error()).Msgf(format, v...)
}

func (l *logger) Info(ctx context.Context, format string, v ...any) {
	l.event(ctx, l.log.Info()).Msgf(format, v...)
}

func (l *logger) Debug(ctx context.Context, format string, v ...any) {
	l.event(ctx, l.log.Debug()).Msgf(format, v...)
}

func (l *logger) Trace(ctx context.Context, format string, v ...any) {
	l.event(ctx, l.log.Trace()).Msgf(format, v...)
}
