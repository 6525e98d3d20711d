// Package logging builds the process logger from configuration and flags.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix tags every line the logger writes.
const Prefix = "wdl"

// Options selects the logging level. Each Verbose step lowers the base level
// by one; Quiet wins over Verbose and keeps only errors.
type Options struct {
	Level   string
	Verbose int
	Quiet   bool
}

// ParseLevel converts a configured level name.
func ParseLevel(name string) (log.Level, error) {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.WarnLevel, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}

// Level resolves the effective level for opts.
func (o Options) Level() (log.Level, error) {
	if o.Quiet {
		return log.ErrorLevel, nil
	}
	level := log.WarnLevel
	if o.Level != "" {
		parsed, err := ParseLevel(o.Level)
		if err != nil {
			return level, err
		}
		level = parsed
	}
	for i := 0; i < o.Verbose && level > log.DebugLevel; i++ {
		level = lower(level)
	}
	return level, nil
}

func lower(level log.Level) log.Level {
	switch level {
	case log.FatalLevel:
		return log.ErrorLevel
	case log.ErrorLevel:
		return log.WarnLevel
	case log.WarnLevel:
		return log.InfoLevel
	default:
		return log.DebugLevel
	}
}

// New returns a logger writing to w at the level opts select.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level, err := opts.Level()
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           level,
		ReportTimestamp: level == log.DebugLevel,
	}), nil
}
