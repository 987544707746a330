// Package logging provides leveled, structured logging for the engine,
// independent of the quiet flag (which controls result chrome, not log
// verbosity).
package logging

import (
	"io"
	"log"
	"os"
)

type Level int

const (
	Debug Level = iota
	Info
	Warning
	Error
	None
)

// Logger wraps four leveled *log.Logger writers, matching the shape a
// small embedded engine typically carries for statement-lifecycle
// tracing.
type Logger struct {
	debug *log.Logger
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	level Level
}

// New creates a Logger writing to output at level. A nil output defaults
// to os.Stderr so result rows on stdout stay uncluttered.
func New(level Level, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}
	return &Logger{
		debug: log.New(output, "debug: ", log.LstdFlags),
		info:  log.New(output, "info: ", log.LstdFlags),
		warn:  log.New(output, "warning: ", log.LstdFlags),
		err:   log.New(output, "error: ", log.LstdFlags),
		level: level,
	}
}

func (l *Logger) SetLevel(level Level) { l.level = level }
func (l *Logger) Level() Level         { return l.level }

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.level <= Debug {
		l.debug.Printf(format, args...)
	}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	if l.level <= Info {
		l.info.Printf(format, args...)
	}
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	if l.level <= Warning {
		l.warn.Printf(format, args...)
	}
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.level <= Error {
		l.err.Printf(format, args...)
	}
}
