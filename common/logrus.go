package common

import (
	log "github.com/sirupsen/logrus"
)

// LogrusLogger adapts a logrus logger to the Logger interface. The CLI
// installs one of these so library diagnostics share the tool's output
// formatting and level filtering.
type LogrusLogger struct {
	logger *log.Logger
}

// NewLogrusLogger wraps an existing logrus logger. A nil argument wraps
// the logrus standard logger.
func NewLogrusLogger(logger *log.Logger) *LogrusLogger {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogrusLogger{logger: logger}
}

func severityToLevel(severity Severity) log.Level {
	switch severity {
	case SeverityDebug:
		return log.DebugLevel
	case SeverityInfo:
		return log.InfoLevel
	case SeverityWarning:
		return log.WarnLevel
	case SeverityError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Log logs a message with the specified severity
func (l *LogrusLogger) Log(severity Severity, msg string) {
	l.logger.Log(severityToLevel(severity), msg)
}

// Logf logs a formatted message with the specified severity
func (l *LogrusLogger) Logf(severity Severity, format string, args ...interface{}) {
	l.logger.Logf(severityToLevel(severity), format, args...)
}

// Error logs an error
func (l *LogrusLogger) Error(err error) {
	if err != nil {
		l.logger.Error(err.Error())
	}
}

// Debug logs a debug message
func (l *LogrusLogger) Debug(msg string) {
	l.logger.Debug(msg)
}

// Info logs an info message
func (l *LogrusLogger) Info(msg string) {
	l.logger.Info(msg)
}

// Warning logs a warning message
func (l *LogrusLogger) Warning(msg string) {
	l.logger.Warning(msg)
}
