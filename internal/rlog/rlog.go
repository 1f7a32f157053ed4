// Package rlog is a small leveled, mutex-protected logger for tracing the
// tree engine's internal decisions (split points, fix-up propagation,
// rebuild progress). It is deliberately minimal: no periodic loggers, no
// NMEA-specific escaping, none of the process-exiting Fatal level the
// teacher logger carries, since a library has no business calling
// os.Exit on a caller's behalf.
package rlog

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Level is a log message's importance, higher is noisier.
type Level int

const (
	Error Level = 3
	Info  Level = 5
	Debug Level = 9
)

// Logger writes leveled, timestamped lines to an io.Writer under a mutex.
// Should not be copied after first use.
type Logger struct {
	mu        sync.Mutex
	writeTo   io.Writer
	threshold Level
}

// New creates a Logger that writes lines at or below threshold to writeTo.
func New(writeTo io.Writer, threshold Level) *Logger {
	return &Logger{writeTo: writeTo, threshold: threshold}
}

// Discard is a Logger that drops everything, useful as a zero-configuration
// default.
var Discard = New(io.Discard, Error)

func (l *Logger) log(level Level, prefix, format string, args ...interface{}) {
	if level > l.threshold {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.writeTo, time.Now().Format("2006-01-02 15:04:05 "))
	if prefix != "" {
		fmt.Fprint(l.writeTo, prefix, ": ")
	}
	if len(args) == 0 {
		fmt.Fprint(l.writeTo, format)
	} else {
		fmt.Fprintf(l.writeTo, format, args...)
	}
	fmt.Fprintln(l.writeTo)
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.log(Debug, "", format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(Info, "", format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(Error, "ERROR", format, args...) }
