// Package cli implements the stacklayout command-line interface.
//
// # Commands
//
//   - order: configure and order a graph, writing a layout or a drawing
//   - render: draw a previously computed layout as DOT or SVG
//   - configure: show the effective options of every element
//   - options: list or browse the option catalog
//   - serve: run the HTTP service
//   - cache: manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so long-running commands can report
// progress.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a text logger writing to w, with timestamps like
// "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// LogFormats lists the accepted --log-format values.
var LogFormats = []string{"text", "logfmt", "json"}

var logFormatters = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"logfmt": log.LogfmtFormatter,
	"json":   log.JSONFormatter,
}

// SetLogFormat switches the log encoding to one of [LogFormats].
// Structured formats use RFC 3339 timestamps.
func (c *CLI) SetLogFormat(name string) error {
	f, ok := logFormatters[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown log format %q (want one of %s)", name, strings.Join(LogFormats, ", "))
	}
	c.Logger.SetFormatter(f)
	if f != log.TextFormatter {
		c.Logger.SetTimeFormat(time.RFC3339)
	}
	return nil
}

// progress logs completion of an operation with its elapsed time.
// It is not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with an elapsed field, e.g. "Ordered elapsed=1.234s nodes=42".
// Extra keyvals are passed through as structured fields.
func (p *progress) done(msg string, keyvals ...any) {
	kv := append([]any{"elapsed", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, kv...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
