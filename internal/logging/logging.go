package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// ParseLevel maps a user supplied level name to a Level, defaulting to
// LevelInfo for anything it does not recognize.
func ParseLevel(name string) Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// LogField represents a key-value pair in structured logging.
type LogField struct {
	Key   string
	Value any
}

// Field creates a LogField from a key-value pair.
func Field(key string, value any) LogField {
	return LogField{Key: key, Value: value}
}

// Logger provides structured logging for the selector. The terminal belongs
// to the interactive shell, so implementations write somewhere else: a file,
// a test buffer, or nowhere at all.
type Logger interface {
	Debug(msg string, fields ...LogField)
	Info(msg string, fields ...LogField)
	Warn(msg string, fields ...LogField)
	Error(msg string, err error, fields ...LogField)
	WithFields(fields ...LogField) Logger
}

// NoOpLogger discards all log entries.
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(_ string, _ ...LogField)          {}
func (n *NoOpLogger) Info(_ string, _ ...LogField)           {}
func (n *NoOpLogger) Warn(_ string, _ ...LogField)           {}
func (n *NoOpLogger) Error(_ string, _ error, _ ...LogField) {}
func (n *NoOpLogger) WithFields(_ ...LogField) Logger        { return n }

var levelRanks = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// TextLogger writes structured log entries to a writer, one line per entry.
type TextLogger struct {
	fields   []LogField
	minLevel Level
	logger   *log.Logger
	writer   io.Writer
}

// NewTextLogger creates a logger with the given minimum level and writer.
// A nil writer discards everything, matching NoOpLogger behaviour.
func NewTextLogger(minLevel Level, writer io.Writer) *TextLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &TextLogger{
		minLevel: minLevel,
		logger:   log.New(writer, "", 0), // no prefix, the entry carries its own
		writer:   writer,
	}
}

// NewFileLogger appends to the file at path and returns the logger plus a
// closer for the underlying handle.
func NewFileLogger(minLevel Level, path string) (*TextLogger, func() error, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewTextLogger(minLevel, file), file.Close, nil
}

func (t *TextLogger) log(level Level, msg string, err error, fields ...LogField) {
	if levelRanks[level] < levelRanks[t.minLevel] {
		return
	}

	allFields := append(append([]LogField(nil), t.fields...), fields...)

	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", time.Now().Format(time.RFC3339)))
	parts = append(parts, fmt.Sprintf("[%s]", level))
	if err != nil {
		parts = append(parts, fmt.Sprintf("[error=%q]", err.Error()))
	}
	parts = append(parts, msg)

	if len(allFields) > 0 {
		var fieldParts []string
		for _, f := range allFields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		parts = append(parts, fmt.Sprintf("fields=[%s]", strings.Join(fieldParts, " ")))
	}

	t.logger.Println(strings.Join(parts, " "))
}

func (t *TextLogger) Debug(msg string, fields ...LogField) {
	t.log(LevelDebug, msg, nil, fields...)
}

func (t *TextLogger) Info(msg string, fields ...LogField) {
	t.log(LevelInfo, msg, nil, fields...)
}

func (t *TextLogger) Warn(msg string, fields ...LogField) {
	t.log(LevelWarn, msg, nil, fields...)
}

func (t *TextLogger) Error(msg string, err error, fields ...LogField) {
	t.log(LevelError, msg, err, fields...)
}

func (t *TextLogger) WithFields(fields ...LogField) Logger {
	return &TextLogger{
		fields:   append(append([]LogField(nil), t.fields...), fields...),
		minLevel: t.minLevel,
		logger:   t.logger,
		writer:   t.writer,
	}
}
