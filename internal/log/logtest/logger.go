// Package logtest implements support for testing Loggers.
package logtest

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/piwi3910/platelayout/internal/log"
)

// Logger is a logger that writes to a buffer to be read later.
type Logger struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

// Logger implements the log.Logger interface.
var _ log.Logger = new(Logger)

// Printf implements the log.Logger interface. Each call ends with a newline.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(&l.buf, format, v...)
	l.buf.WriteByte('\n')
}

// String returns the recorded string.
func (l *Logger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}

// Empty returns if buffer is empty.
func (l *Logger) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Len() == 0
}
