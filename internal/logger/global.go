package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var globalLogger = NewDefault()

func init() {
	Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure applies textual level and format settings to the global logger.
// Empty or unrecognised values leave the current setting untouched.
func Configure(level, format string) {
	if l, ok := parseLogLevel(level); ok {
		globalLogger.SetLevel(l)
	}
	if f, ok := parseLogFormat(format); ok {
		globalLogger.SetFormat(f)
	}
}

// parseLogLevel accepts zerolog level names plus "warning"; trace maps to DEBUG and panic to FATAL
func parseLogLevel(level string) (LogLevel, bool) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return 0, false
	}
	if level == "warning" {
		level = "warn"
	}
	zl, err := zerolog.ParseLevel(level)
	if err != nil {
		return 0, false
	}
	switch zl {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return DEBUG, true
	case zerolog.InfoLevel:
		return INFO, true
	case zerolog.WarnLevel:
		return WARN, true
	case zerolog.ErrorLevel:
		return ERROR, true
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return FATAL, true
	default:
		return 0, false
	}
}

var logFormats = map[string]LogFormat{
	"json":    JSONFormat,
	"text":    TextFormat,
	"console": TextFormat,
	"auto":    AutoFormat,
}

func parseLogFormat(format string) (LogFormat, bool) {
	f, ok := logFormats[strings.ToLower(strings.TrimSpace(format))]
	return f, ok
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	return globalLogger
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	globalLogger = logger
}

func Debug(message string, fields ...map[string]interface{}) {
	globalLogger.Debug(message, fields...)
}

func Info(message string, fields ...map[string]interface{}) {
	globalLogger.Info(message, fields...)
}

func Infof(format string, args ...interface{}) {
	globalLogger.Infof(format, args...)
}

func Warn(message string, fields ...map[string]interface{}) {
	globalLogger.Warn(message, fields...)
}

func Error(message string, err error, fields ...map[string]interface{}) {
	globalLogger.Error(message, err, fields...)
}

// Fatal logs through the global logger and exits
func Fatal(message string, err error, fields ...map[string]interface{}) {
	globalLogger.Fatal(message, err, fields...)
}
