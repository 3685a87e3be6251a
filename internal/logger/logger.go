package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case INFO:
		return zerolog.InfoLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.FatalLevel
	}
}

// LogFormat represents the output format for logs
type LogFormat int

const (
	JSONFormat LogFormat = iota
	TextFormat
	// AutoFormat picks TextFormat for terminals and JSONFormat otherwise
	AutoFormat
)

func init() {
	zerolog.TimestampFieldName = "timestamp"
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.LevelFieldMarshalFunc = func(l zerolog.Level) string {
		if l == zerolog.WarnLevel {
			return "WARN"
		}
		return strings.ToUpper(l.String())
	}
}

// LogEntry is the JSON shape of a single log line
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Component string                 `json:"component,omitempty"`
	Caller    string                 `json:"caller,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Logger is a leveled, component-scoped structured logger
type Logger struct {
	mu        sync.RWMutex
	level     LogLevel
	format    LogFormat
	output    io.Writer
	component string
	zl        zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level     LogLevel
	Format    LogFormat
	Output    io.Writer
	Component string
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	l := &Logger{
		level:     config.Level,
		format:    resolveFormat(config.Format, config.Output),
		output:    config.Output,
		component: config.Component,
	}
	l.zl = l.build()
	return l
}

// NewDefault creates a logger with default configuration
func NewDefault() *Logger {
	return New(Config{
		Level:  INFO,
		Format: JSONFormat,
		Output: os.Stdout,
	})
}

// WithComponent creates a new logger with the specified component name
func (l *Logger) WithComponent(component string) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return New(Config{
		Level:     l.level,
		Format:    l.format,
		Output:    l.output,
		Component: component,
	})
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetFormat sets the log output format
func (l *Logger) SetFormat(format LogFormat) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = resolveFormat(format, l.output)
	l.zl = l.build()
}

// SetOutput redirects log output to w
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	l.zl = l.build()
}

// build creates the zerolog backend for the current format. Callers hold l.mu or own l exclusively.
func (l *Logger) build() zerolog.Logger {
	var w io.Writer = l.output
	if l.format == TextFormat {
		w = zerolog.ConsoleWriter{
			Out:        l.output,
			NoColor:    true,
			TimeFormat: time.RFC3339,
			FormatLevel: func(i interface{}) string {
				return fmt.Sprintf("%-5s", i)
			},
		}
	}
	ctx := zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp()
	if l.component != "" && l.format != TextFormat {
		ctx = ctx.Str("component", l.component)
	}
	return ctx.Logger()
}

// resolveFormat turns AutoFormat into a concrete format for output
func resolveFormat(format LogFormat, output io.Writer) LogFormat {
	if format != AutoFormat {
		return format
	}
	if f, ok := output.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return TextFormat
		}
	}
	return JSONFormat
}

// log is the internal logging method
func (l *Logger) log(level LogLevel, message string, fields map[string]interface{}, err error) {
	l.mu.RLock()
	if level < l.level {
		l.mu.RUnlock()
		return
	}
	zl := l.zl
	format := l.format
	component := l.component
	l.mu.RUnlock()

	event := zl.WithLevel(level.zerolog()).Caller(2)
	if len(fields) > 0 {
		if format == TextFormat {
			event = event.Fields(fields)
		} else {
			event = event.Dict("fields", zerolog.Dict().Fields(fields))
		}
	}
	if err != nil {
		event = event.Err(err)
	}
	if format == TextFormat && component != "" {
		message = "[" + component + "] " + message
	}
	event.Msg(message)

	if level == FATAL {
		os.Exit(1)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...map[string]interface{}) {
	l.log(DEBUG, message, firstFields(fields), nil)
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...map[string]interface{}) {
	l.log(INFO, message, firstFields(fields), nil)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...map[string]interface{}) {
	l.log(WARN, message, firstFields(fields), nil)
}

// Error logs an error message
func (l *Logger) Error(message string, err error, fields ...map[string]interface{}) {
	l.log(ERROR, message, firstFields(fields), err)
}

// Fatal logs a fatal message and exits the program
func (l *Logger) Fatal(message string, err error, fields ...map[string]interface{}) {
	l.log(FATAL, message, firstFields(fields), err)
}

func firstFields(fields []map[string]interface{}) map[string]interface{} {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}
