package batch

import (
	"fmt"
	"log"
	"os"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detail useful when diagnosing problems.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for messages that track the progress of a run.
	LogLevelInfo
	// LogLevelWarn is for situations that may need attention, such as
	// dropped items.
	LogLevelWarn
	// LogLevelError is for failures the engine recovered from.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger receives diagnostics from the engine: run lifecycle, batch
// completions, size adjustments, and dropped items. Implementations can route
// messages anywhere. The Logger is optional; when none is configured the
// engine uses NoOpLogger.
type Logger interface {
	// Log writes a message at the given level. The message is formatted
	// with fmt.Sprintf when args are provided.
	Log(level LogLevel, format string, args ...any)

	// Debug logs a debug-level message.
	Debug(format string, args ...any)

	// Info logs an info-level message.
	Info(format string, args ...any)

	// Warn logs a warning-level message.
	Warn(format string, args ...any)

	// Error logs an error-level message.
	Error(format string, args ...any)
}

// NoOpLogger discards all log messages. It is the default when no Logger is
// configured.
type NoOpLogger struct{}

// Log implements the Logger interface.
func (NoOpLogger) Log(level LogLevel, format string, args ...any) {}

// Debug implements the Logger interface.
func (NoOpLogger) Debug(format string, args ...any) {}

// Info implements the Logger interface.
func (NoOpLogger) Info(format string, args ...any) {}

// Warn implements the Logger interface.
func (NoOpLogger) Warn(format string, args ...any) {}

// Error implements the Logger interface.
func (NoOpLogger) Error(format string, args ...any) {}

// SimpleLogger writes to stdout and stderr using the standard log package.
// Debug and Info go to stdout; Warn and Error go to stderr. Messages below
// MinLevel are discarded.
type SimpleLogger struct {
	MinLevel LogLevel

	// StdoutLogger handles Debug and Info messages.
	StdoutLogger *log.Logger

	// StderrLogger handles Warn and Error messages.
	StderrLogger *log.Logger
}

// NewSimpleLogger creates a SimpleLogger with the given minimum level.
func NewSimpleLogger(minLevel LogLevel) *SimpleLogger {
	return &SimpleLogger{
		MinLevel:     minLevel,
		StdoutLogger: log.New(os.Stdout, "", log.LstdFlags),
		StderrLogger: log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Log implements the Logger interface.
func (s *SimpleLogger) Log(level LogLevel, format string, args ...any) {
	if level < s.MinLevel {
		return
	}

	msg := fmt.Sprintf(format, args...)
	out := s.StdoutLogger
	if level >= LogLevelWarn {
		out = s.StderrLogger
	}
	out.Printf("[%s] %s", level, msg)
}

// Debug implements the Logger interface.
func (s *SimpleLogger) Debug(format string, args ...any) {
	s.Log(LogLevelDebug, format, args...)
}

// Info implements the Logger interface.
func (s *SimpleLogger) Info(format string, args ...any) {
	s.Log(LogLevelInfo, format, args...)
}

// Warn implements the Logger interface.
func (s *SimpleLogger) Warn(format string, args ...any) {
	s.Log(LogLevelWarn, format, args...)
}

// Error implements the Logger interface.
func (s *SimpleLogger) Error(format string, args ...any) {
	s.Log(LogLevelError, format, args...)
}
