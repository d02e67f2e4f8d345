// Package logger provides structured logging using zerolog.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const batchIDKey contextKey = "batch_id"

const milliTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Options configures Init. Zero values give info level on stderr.
type Options struct {
	Level   string
	File    string // appended to in addition to Out
	NoColor bool
	Out     io.Writer
}

// Init initializes the global logger. An unparsable level falls back to info
// and is reported in the returned error; the logger is usable either way.
func Init(opts Options) error {
	zerolog.TimeFieldFormat = milliTimeFormat
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }

	const callerWidth = 30
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		path := fmt.Sprintf("%s:%d", filepath.Base(file), line)
		if len(path) >= callerWidth {
			return path[len(path)-callerWidth:]
		}
		return path + strings.Repeat(" ", callerWidth-len(path))
	}

	var levelErr error
	if opts.Level == "" {
		opts.Level = "info"
	}
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		level = zerolog.InfoLevel
		levelErr = fmt.Errorf("log level %q: %w", opts.Level, err)
	}
	zerolog.SetGlobalLevel(level)

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	var output io.Writer = zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: milliTimeFormat,
		NoColor:    opts.NoColor,
	}

	if opts.File != "" {
		f, ferr := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if ferr != nil {
			return fmt.Errorf("open log file: %w", ferr)
		}
		output = io.MultiWriter(output, f)
	}

	log.Logger = log.Output(output).With().Caller().Logger()

	log.Debug().
		Str("level", level.String()).
		Str("file", opts.File).
		Msg("Logger initialized")
	return levelErr
}

// Get returns the global logger instance.
func Get() zerolog.Logger {
	return log.Logger
}

// NewBatchID returns a fresh id for one CLI invocation.
func NewBatchID() string {
	return uuid.NewString()
}

// WithBatchID returns a new context with the given batch ID stored.
func WithBatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchIDKey, id)
}

// BatchIDFromContext extracts the batch ID from context, or empty string.
func BatchIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(batchIDKey).(string)
	return id
}

// ForBatch returns a logger enriched with the batch ID from context.
func ForBatch(ctx context.Context) zerolog.Logger {
	id := BatchIDFromContext(ctx)
	if id == "" {
		return log.Logger
	}
	return log.Logger.With().Str("batch", id).Logger()
}

// LogOrders logs an order listing at debug level, truncating if too long.
func LogOrders(logger zerolog.Logger, label, dson string) {
	if dson == "" {
		return
	}
	if len(dson) > 1000 {
		logger.Debug().Str("orders", dson[:1000]).Bool("truncated", true).Msg(label)
	} else {
		logger.Debug().Str("orders", dson).Msg(label)
	}
}
