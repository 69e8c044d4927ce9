package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// RequestIDField is the structured logging field for web request identifiers.
const RequestIDField = "request_id"

type contextKey string

var (
	loggerContextKey = contextKey("trt-logger")

	globalMu     sync.RWMutex
	globalLogger = newNopLogger()
)

// Level represents log verbosity ordering.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel converts a level name into a Level. An empty name means info.
func ParseLevel(raw string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", raw)
	}
}

// Format selects how log lines are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a log format name. An empty name means text.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown log format %q", raw)
	}
}

// Field represents a structured logging attribute.
type Field struct {
	Key   string
	Value any
}

// String returns a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int returns an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Int64 returns an int64 field.
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

// Float returns a float64 field.
func Float(key string, value float64) Field { return Field{Key: key, Value: value} }

// Duration returns a duration field rendered as a string.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value.String()} }

// Err returns an error field.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Logger emits structured logs with optional contextual fields. It is safe
// for concurrent use.
type Logger struct {
	mu     *sync.Mutex
	level  Level
	format Format
	writer io.Writer
	fields map[string]any
}

// New constructs a logger writing to w.
func New(w io.Writer, level Level, format Format) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		mu:     &sync.Mutex{},
		level:  level,
		format: format,
		writer: w,
		fields: make(map[string]any),
	}
}

// NewFromConfig parses level and format names and builds a stderr logger,
// installing it as the global fallback.
func NewFromConfig(level, format string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	logger := New(os.Stderr, lvl, f)
	ReplaceGlobals(logger)
	return logger, nil
}

// NewTestLogger returns a logger that discards output, suitable for tests.
func NewTestLogger() *Logger {
	return newNopLogger()
}

func newNopLogger() *Logger {
	return New(io.Discard, DebugLevel, FormatText)
}

// ReplaceGlobals swaps the fallback logger used when no context logger is present.
func ReplaceGlobals(logger *Logger) {
	if logger == nil {
		return
	}
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
}

// L returns the current global logger.
func L() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Level returns the minimum level that is written.
func (l *Logger) Level() Level {
	if l == nil {
		return L().Level()
	}
	return l.level
}

// With augments the logger with additional structured fields.
func (l *Logger) With(fields ...Field) *Logger {
	if l == nil {
		return L().With(fields...)
	}
	clone := &Logger{
		mu:     l.mu,
		level:  l.level,
		format: l.format,
		writer: l.writer,
		fields: make(map[string]any, len(l.fields)+len(fields)),
	}
	for k, v := range l.fields {
		clone.fields[k] = v
	}
	for _, field := range fields {
		clone.fields[field.Key] = field.Value
	}
	return clone
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields ...Field) { l.log(DebugLevel, message, fields...) }

// Info logs an informational message.
func (l *Logger) Info(message string, fields ...Field) { l.log(InfoLevel, message, fields...) }

// Warn logs a warning message.
func (l *Logger) Warn(message string, fields ...Field) { l.log(WarnLevel, message, fields...) }

// Error logs an error message.
func (l *Logger) Error(message string, fields ...Field) { l.log(ErrorLevel, message, fields...) }

// Printf logs a formatted message at info level, or at warn level when it
// starts with "Warning". This lets a Logger stand in wherever the rendering
// packages expect a Printf-style logger.
func (l *Logger) Printf(format string, args ...interface{}) {
	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	level := InfoLevel
	if strings.HasPrefix(message, "Warning") {
		level = WarnLevel
	}
	l.log(level, message)
}

func (l *Logger) log(level Level, message string, fields ...Field) {
	if l == nil {
		L().log(level, message, fields...)
		return
	}
	if level < l.level {
		return
	}
	payload := make(map[string]any, len(l.fields)+len(fields)+3)
	for k, v := range l.fields {
		payload[k] = v
	}
	for _, field := range fields {
		payload[field.Key] = field.Value
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	var data []byte
	if l.format == FormatJSON {
		payload["timestamp"] = timestamp
		payload["level"] = level.String()
		payload["message"] = message
		encoded, err := json.Marshal(payload)
		if err != nil {
			return
		}
		data = encoded
	} else {
		data = []byte(formatText(timestamp, level, message, payload))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.writer.Write(append(data, '\n'))
}

// formatText renders "timestamp LEVEL message key=value ..." with keys sorted
func formatText(timestamp string, level Level, message string, fields map[string]any) string {
	var b strings.Builder
	b.WriteString(timestamp)
	b.WriteByte(' ')
	b.WriteString(strings.ToUpper(level.String()))
	b.WriteByte(' ')
	b.WriteString(message)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}

// ContextWithLogger stores a logger in the provided context.
func ContextWithLogger(ctx context.Context, logger *Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey, logger)
}

// LoggerFromContext retrieves a logger from context or falls back to the global logger.
func LoggerFromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return L()
	}
	if logger, ok := ctx.Value(loggerContextKey).(*Logger); ok && logger != nil {
		return logger
	}
	return L()
}

// GenerateRequestID creates a random 8-byte identifier represented as hex.
func GenerateRequestID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err == nil {
		return hex.EncodeToString(buf[:])
	}
	return fmt.Sprintf("%x", time.Now().UnixNano())
}
