package logger

import (
	"log"
	"strings"
	"sync/atomic"
)

// Level represents logging verbosity.
type Level int32

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel maps ERROR, WARN, INFO and DEBUG (any case) to a Level.
// Unknown names fall back to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	}
	return LevelInfo
}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelDebug:
		return "DEBUG"
	}
	return "INFO"
}

// Logger provides leveled logging on top of the standard logger.
type Logger struct {
	level atomic.Int32
}

func New(level Level) *Logger {
	l := &Logger{}
	l.SetLevel(level)
	return l
}

func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if l.Level() >= level {
		log.Printf("["+level.String()+"] "+format, args...)
	}
}

func (l *Logger) Error(format string, args ...interface{}) { l.logf(LevelError, format, args...) }

func (l *Logger) Warn(format string, args ...interface{}) { l.logf(LevelWarn, format, args...) }

func (l *Logger) Info(format string, args ...interface{}) { l.logf(LevelInfo, format, args...) }

func (l *Logger) Debug(format string, args ...interface{}) { l.logf(LevelDebug, format, args...) }

var std = New(LevelInfo)

// Default returns the process-wide logger.
func Default() *Logger { return std }

// SetLevel changes the level of the process-wide logger.
func SetLevel(level Level) { std.SetLevel(level) }

func Error(format string, args ...interface{}) { std.Error(format, args...) }

func Warn(format string, args ...interface{}) { std.Warn(format, args...) }

func Info(format string, args ...interface{}) { std.Info(format, args...) }

func Debug(format string, args ...interface{}) { std.Debug(format, args...) }
