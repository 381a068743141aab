// Package cli implements the orgchart command-line interface.
//
// Commands read unit records from a database table (or a JSON file given
// with --input), build the hierarchy and lay it out in centered layers:
//
//   - render: write org_chart.svg and org_chart.png, plus optional dot/json
//   - layout: print hierarchy and canvas statistics without writing files
//   - serve: render charts on HTTP request
//   - cache: clear or locate the record cache
//
// Settings are layered: built-in defaults, orgchart.toml, a .env file, the
// process environment, then flags set on the command line.
//
// # Logging
//
// Every command supports --verbose (-v) for debug-level logging. The logger
// travels on the command context; see [withLogger].
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the command logger. Timestamps are formatted as
// "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command stage, such as a whole render run.
// It is not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs the formatted message with the elapsed time rounded to the
// millisecond, e.g. "Rendered 42 units (1.234s)".
func (p *progress) done(format string, args ...any) {
	p.logger.Infof("%s (%s)", fmt.Sprintf(format, args...), time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx. The root command does this before any
// subcommand runs.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
