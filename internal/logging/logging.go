// Package logging builds the hclog loggers used across xstitch.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// New returns a logger writing to stderr. verbose enables debug output and
// quiet silences everything; quiet wins when both are set.
func New(name string, verbose, quiet bool) hclog.Logger {
	return NewWithOutput(name, os.Stderr, verbose, quiet)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(name string, w io.Writer, verbose, quiet bool) hclog.Logger {
	switch {
	case quiet:
		return hclog.New(&hclog.LoggerOptions{
			Name:   name,
			Output: io.Discard,
			Level:  hclog.Off,
		})
	case verbose:
		return hclog.New(&hclog.LoggerOptions{
			Name:   name,
			Output: w,
			Level:  hclog.Debug,
		})
	default:
		return hclog.New(&hclog.LoggerOptions{
			Name:   name,
			Output: w,
			Level:  hclog.Info,
		})
	}
}

// OrNull returns logger, or a logger that discards everything when logger
// is nil.
func OrNull(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}
