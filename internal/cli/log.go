// Package cli implements the archetype command-line interface.
//
// This package provides commands for generating target architecture diagrams
// from server inventories, re-exporting existing diagrams, serving them over
// HTTP, and managing the artifact cache. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - generate: Build a diagram from an inventory file and export artifacts
//   - export: Re-export artifacts from a previously generated diagram
//   - validate: Check a diagram file for structural problems
//   - serve: Serve diagrams over HTTP
//   - cache: Manage the local artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/archetype-cli/archetype/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger builds the logger every command shares. Output goes to w,
// messages below level are dropped, and timestamps are rendered as
// "15:04:05.00" so pipeline stages can be eyeballed for slowness.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress pairs a log line with the elapsed time of the operation it
// reports on. Create one when the operation starts and call done when it
// finishes; a single goroutine owns each instance.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg suffixed with the elapsed time since construction,
// rounded to a millisecond, e.g. "Generated 15 components (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is unexported so other packages cannot collide with our
// context values.
type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to the context for retrieval further down the
// call chain.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, falling
// back to log.Default so callers never receive nil.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
