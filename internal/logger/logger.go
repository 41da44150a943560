// Package logger builds charmbracelet/log loggers that write to stderr.
// Stdout is reserved for the MCP protocol and command output.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options configures a logger
type Options struct {
	Level     string    // debug, info, warn, error (default info)
	Format    string    // text, json, logfmt (default text)
	Timestamp bool      // Report timestamps
	Writer    io.Writer // Defaults to os.Stderr
}

// New creates a charm logger with the given prefix and options
func New(prefix string, opts Options) (*log.Logger, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	formatter, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    false,
		ReportTimestamp: opts.Timestamp,
		Formatter:       formatter,
	}), nil
}

// ParseFormat maps a format name to a charm formatter
func ParseFormat(name string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("invalid log format %q (want text, json or logfmt)", name)
	}
}

// Nop returns a logger that discards everything
func Nop() *log.Logger {
	return log.New(io.Discard)
}
