package logger

import (
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Minimal leveled logger shared by all packages.
// Level is set once at startup via Init (LOG_LEVEL env: debug|info|warn|error|fatal).

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu  sync.RWMutex
	out *log.Logger = log.New(os.Stdout, "", 0)
	lvl Level       = LevelInfo
)

// Init sets the global log level (case-insensitive). Unknown values fall back to info.
func Init(level string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = LevelDebug
	case "warn", "warning":
		lvl = LevelWarn
	case "error":
		lvl = LevelError
	case "fatal":
		lvl = LevelFatal
	default:
		lvl = LevelInfo
	}
}

func enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= lvl
}

func write(tag, format string, v ...interface{}) {
	out.Printf(time.Now().Format(time.RFC3339)+" ["+tag+"] "+format, v...)
}

func Debugf(format string, v ...interface{}) {
	if enabled(LevelDebug) {
		write("DEBUG", format, v...)
	}
}

func Infof(format string, v ...interface{}) {
	if enabled(LevelInfo) {
		write("INFO", format, v...)
	}
}

func Warnf(format string, v ...interface{}) {
	if enabled(LevelWarn) {
		write("WARN", format, v...)
	}
}

func Errorf(format string, v ...interface{}) {
	if enabled(LevelError) {
		write("ERROR", format, v...)
	}
}

func Fatalf(format string, v ...interface{}) {
	write("FATAL", format, v...)
	os.Exit(1)
}

// Single-string helpers.
func Debug(msg string) { Debugf("%s", msg) }
func Info(msg string)  { Infof("%s", msg) }
func Warn(msg string)  { Warnf("%s", msg) }
func Error(msg string) { Errorf("%s", msg) }

// LevelString reports the active level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch lvl {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}

// SetOutput redirects log output; tests use this to capture lines.
func SetOutput(l *log.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = log.New(os.Stdout, "", 0)
	}
	out = l
}
