package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Minimal leveled logger shared by the feed and identity services.
// Level is set once at startup via Init (LOG_LEVEL env value).

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
}

var (
	mu    sync.RWMutex
	out   = log.New(os.Stdout, "", 0)
	level = LevelInfo
)

// ParseLevel maps a case-insensitive level name to a Level; unknown input maps to Info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Init sets the global log level. Call early during startup.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

// SetOutput redirects log output; used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = log.New(w, "", 0)
}

func header(lvl string) string {
	return fmt.Sprintf("%s [%s] ", time.Now().Format(time.RFC3339), strings.ToUpper(lvl))
}

func logf(l Level, format string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if l < level {
		return
	}
	out.Printf(header(levelNames[l])+format, v...)
}

func Debugf(format string, v ...interface{}) { logf(LevelDebug, format, v...) }
func Infof(format string, v ...interface{})  { logf(LevelInfo, format, v...) }
func Warnf(format string, v ...interface{})  { logf(LevelWarn, format, v...) }
func Errorf(format string, v ...interface{}) { logf(LevelError, format, v...) }

func Fatalf(format string, v ...interface{}) {
	logf(LevelFatal, format, v...)
	os.Exit(1)
}

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) {
	logf(LevelInfo, "%s", strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return levelNames[level]
}
