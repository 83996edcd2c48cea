// Package cli implements the chartcore command-line interface.
//
// # Commands
//
//   - compute: run the pipeline on a spec and a dataset and write the snapshot
//   - focus: resolve hover, tooltip, cursor and brush state at a pointer
//   - explore: interactive pointer simulator (bubbletea)
//   - serve: HTTP server over the pipeline, cached on disk or in Redis
//   - cache: manage the local snapshot cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes the per-stage recompute logs of the chart.
package cli

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// logFormatEnv selects the log formatter: text (default), json or logfmt.
const logFormatEnv = "CHARTCORE_LOG_FORMAT"

// newLogger creates a logger with "HH:MM:SS.ms" timestamps. The serve
// command is usually run with CHARTCORE_LOG_FORMAT=json under a collector.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Formatter:       logFormatter(os.Getenv(logFormatEnv)),
	})
}

func logFormatter(name string) log.Formatter {
	switch strings.ToLower(name) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	}
	return log.TextFormatter
}

// progress times one operation.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the given key/value pairs and an elapsed field
// rounded to the millisecond.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
