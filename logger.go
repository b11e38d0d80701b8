package schedviewer

import (
	"fmt"
	"io"
	logpkg "log"
	"os"
	"strings"
	"sync"
)

// LogLevel defines severity for logger output.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var logLevels = map[string]LogLevel{
	"error":   LogLevelError,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"info":    LogLevelInfo,
	"debug":   LogLevelDebug,
}

// ParseLogLevel maps a config string to a LogLevel. Unknown names give info.
func ParseLogLevel(s string) LogLevel {
	if level, ok := logLevels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return level
	}
	return LogLevelInfo
}

// Logger provides leveled logging.
type Logger struct {
	mu     sync.RWMutex
	level  LogLevel
	logger *logpkg.Logger
}

// NewLogger creates a logger writing to w with the given level and prefix.
func NewLogger(w io.Writer, level LogLevel, prefix string) *Logger {
	return &Logger{
		level:  level,
		logger: logpkg.New(w, prefix, logpkg.LstdFlags|logpkg.Lmicroseconds),
	}
}

// SetLevel adjusts the current logging level.
func (l *Logger) SetLevel(level LogLevel) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *Logger) logf(target LogLevel, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.RLock()
	level := l.level
	l.mu.RUnlock()
	if target > level {
		return
	}
	l.logger.Output(3, fmt.Sprintf(format, args...))
}

// Debugf prints debug messages.
func (l *Logger) Debugf(format string, args ...any) {
	l.logf(LogLevelDebug, format, args...)
}

// Infof prints info messages.
func (l *Logger) Infof(format string, args ...any) {
	l.logf(LogLevelInfo, format, args...)
}

// Warnf prints warning messages.
func (l *Logger) Warnf(format string, args ...any) {
	l.logf(LogLevelWarn, format, args...)
}

// Errorf prints error messages.
func (l *Logger) Errorf(format string, args ...any) {
	l.logf(LogLevelError, format, args...)
}

var (
	loggerMu      sync.RWMutex
	defaultLogger = NewLogger(os.Stdout, LogLevelInfo, "[SCHED] ")
)

// GetLogger returns the global logger.
func GetLogger() *Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the global logger (primarily for tests).
func SetLogger(l *Logger) {
	if l == nil {
		return
	}
	loggerMu.Lock()
	defaultLogger = l
	loggerMu.Unlock()
}
