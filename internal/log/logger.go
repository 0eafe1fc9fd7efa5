// Package log provides an abstraction over log.Logger.
package log

import (
	"io"
	stdlog "log"
)

// Logger is an interface over log.Logger so the session, catalog and UI all
// write through the logger created in main rather than the package default.
type Logger interface {
	// Printf writes the formatted string with values to the logger.
	// Arguments are handled in the manner of fmt.Printf.
	Printf(format string, v ...interface{})
}

// Discard is a Logger that drops everything written to it.
var Discard Logger = discardLogger{}

type discardLogger struct{}

func (discardLogger) Printf(format string, v ...interface{}) {}

// New creates a Logger that writes timestamped lines with the prefix to w.
func New(w io.Writer, prefix string) Logger {
	return stdlog.New(w, prefix, stdlog.LstdFlags)
}

// OrDiscard returns l, or Discard if l is nil.
func OrDiscard(l Logger) Logger {
	if l == nil {
		return Discard
	}
	return l
}
