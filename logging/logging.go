// Package logging provides leveled console output for the record manager.
// The backing store is the record of truth; log lines only report what
// happened to it (loads, saves, recoveries) and which records changed.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents log severity.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger provides structured logging to stderr.
type Logger struct {
	mu        *sync.Mutex
	output    io.Writer
	minLevel  Level
	component string
}

// levelPriority maps levels to numeric priority for filtering.
var levelPriority = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// New creates a new Logger.
func New() *Logger {
	return &Logger{
		mu:       &sync.Mutex{},
		output:   os.Stderr,
		minLevel: LevelInfo,
	}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	l := New()
	l.output = io.Discard
	return l
}

// ParseLevel converts a config string ("debug", "INFO", ...) to a Level.
func ParseLevel(s string) (Level, error) {
	level := Level(strings.ToUpper(strings.TrimSpace(s)))
	if level == "WARNING" {
		level = LevelWarn
	}
	if _, ok := levelPriority[level]; !ok {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// WithComponent returns a new logger with the given component name.
// The new logger shares the parent's output and lock.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		mu:        l.mu,
		output:    l.output,
		minLevel:  l.minLevel,
		component: component,
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.minLevel = level
}

// SetOutput sets the output writer (default: stderr).
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.log(LevelError, msg, fields...)
}

// formatFields formats a map of fields as key=value pairs in key order.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return " " + strings.Join(parts, " ")
}

// log writes a log entry in traditional format: LEVEL TIMESTAMP [component] message key=value ...
func (l *Logger) log(level Level, msg string, fields ...map[string]interface{}) {
	if levelPriority[level] < levelPriority[l.minLevel] {
		return
	}

	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	var fieldStr string
	if len(fields) > 0 && fields[0] != nil {
		fieldStr = formatFields(fields[0])
	}

	var line string
	if l.component != "" {
		line = fmt.Sprintf("%-5s %s [%s] %s%s\n", level, timestamp, l.component, msg, fieldStr)
	} else {
		line = fmt.Sprintf("%-5s %s %s%s\n", level, timestamp, msg, fieldStr)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write([]byte(line))
}

// --- Record manager events ---

// StoreLoaded logs a successful load of the backing store.
func (l *Logger) StoreLoaded(location string, count int, duration time.Duration) {
	l.Info("store_loaded", map[string]interface{}{
		"location": location,
		"resumes":  count,
		"duration": duration.String(),
	})
}

// StoreEmpty logs that no document exists yet at the location.
func (l *Logger) StoreEmpty(location string) {
	l.Debug("store_empty", map[string]interface{}{
		"location": location,
	})
}

// StoreLoadFailed logs an unreadable or corrupt store. The manager
// continues with an empty collection.
func (l *Logger) StoreLoadFailed(location string, err error) {
	l.Warn("store_load_failed", map[string]interface{}{
		"location": location,
		"error":    err.Error(),
		"recovery": "empty",
	})
}

// StoreSaved logs a completed full rewrite of the store.
func (l *Logger) StoreSaved(location string, count int, bytes int) {
	l.Debug("store_saved", map[string]interface{}{
		"location": location,
		"resumes":  count,
		"bytes":    bytes,
	})
}

// StoreSaveFailed logs a failed save. In-memory state stays authoritative.
func (l *Logger) StoreSaveFailed(location string, err error) {
	l.Error("store_save_failed", map[string]interface{}{
		"location": location,
		"error":    err.Error(),
	})
}

// RecordCreated logs a new resume.
func (l *Logger) RecordCreated(id string) {
	l.Info("resume_created", map[string]interface{}{
		"id": id,
	})
}

// RecordDeleted logs a removed resume.
func (l *Logger) RecordDeleted(id string) {
	l.Info("resume_deleted", map[string]interface{}{
		"id": id,
	})
}

// RecordMutated logs an in-place change such as an added skill.
func (l *Logger) RecordMutated(id, change string) {
	l.Debug("resume_mutated", map[string]interface{}{
		"id":     id,
		"change": change,
	})
}

// --- Mutation event export ---

// EventExportFailed logs events that could not be delivered. They stay
// pending for the next attempt unless the exporter has to drop them.
func (l *Logger) EventExportFailed(target string, pending int, err error) {
	l.Warn("event_export_failed", map[string]interface{}{
		"target":  target,
		"pending": pending,
		"error":   err.Error(),
	})
}

// EventsDropped logs events discarded because the pending buffer was full.
func (l *Logger) EventsDropped(target string, dropped int) {
	l.Warn("events_dropped", map[string]interface{}{
		"target":  target,
		"dropped": dropped,
	})
}
