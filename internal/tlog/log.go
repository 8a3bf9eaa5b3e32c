// Package tlog provides a small leveled-logging abstraction for the
// extraction pipeline's diagnostics and statistics output.
package tlog

import (
	"log"
	"os"
)

// Logger is the minimal interface a host logging library must satisfy.
type Logger interface {
	Printf(format string, args ...interface{})
	Println(args ...interface{})
}

type logger struct {
	log Logger
}

// Debug, Info, and Stats are the three leveled loggers the pipeline writes
// through. All are disabled (no-op) until a host opts in.
var (
	Debug = &logger{}
	Info  = &logger{}
	Stats = &logger{}
)

// SetDebugLogger sets the debug logger.
func SetDebugLogger(l Logger) { Debug.log = l }

// SetInfoLogger sets the info logger.
func SetInfoLogger(l Logger) { Info.log = l }

// SetStatsLogger sets the stats logger.
func SetStatsLogger(l Logger) { Stats.log = l }

// SetDefaultDebugLogger sets the debug logger to write to stderr.
func SetDefaultDebugLogger() {
	SetDebugLogger(log.New(os.Stderr, "DEBUG: ", log.Ldate|log.Ltime))
}

// SetDefaultInfoLogger sets the info logger to write to stderr.
func SetDefaultInfoLogger() {
	SetInfoLogger(log.New(os.Stderr, "INFO: ", log.Ldate|log.Ltime))
}

// SetDefaultStatsLogger sets the stats logger to write to stderr.
func SetDefaultStatsLogger() {
	SetStatsLogger(log.New(os.Stderr, "STATS: ", log.Ldate|log.Ltime))
}

// SetDefaultLoggers enables all three loggers at their default stderr destination.
func SetDefaultLoggers() {
	SetDefaultDebugLogger()
	SetDefaultInfoLogger()
	SetDefaultStatsLogger()
}

// DisableLoggers turns off all logging.
func DisableLoggers() {
	SetDebugLogger(nil)
	SetInfoLogger(nil)
	SetStatsLogger(nil)
}

// Printf writes a formatted message, if this logger is enabled.
func (l *logger) Printf(format string, args ...interface{}) {
	if l.log == nil {
		return
	}
	l.log.Printf(format, args...)
}

// Println writes a line, if this logger is enabled.
func (l *logger) Println(args ...interface{}) {
	if l.log == nil {
		return
	}
	l.log.Println(args...)
}
