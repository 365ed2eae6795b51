// Package cli implements the biotree command-line interface.
//
// The commands load a hierarchy document through the same engine the HTTP
// viewer uses, so every command sees the same pruning, layout and framing.
// The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: Write settled snapshots as SVG, PNG, JSON or DOT
//   - explore: Interactive terminal viewer (bubbletea)
//   - serve: HTTP API over in-memory viewer sessions
//   - find, search: Resolve node paths and match labels
//   - cache: Manage the document cache
//
// # Configuration
//
// Defaults come from $XDG_CONFIG_HOME/biotree/config.toml (or --config);
// flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes timestamped ("15:04:05.00") records at level and above.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// quietLogger drops everything. The explore command uses it while the
// terminal belongs to the viewer.
func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// progress times one step of a command.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond, and any
// extra key/value pairs:
//
//	12:01:02.34 INFO Laid out taxonomy.json elapsed=41ms nodes=5210
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append([]any{"elapsed", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default() outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
