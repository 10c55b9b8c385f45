package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// LogLevel represents the severity of a log entry.
type LogLevel int

const (
	DEBUG LogLevel = -1
	INFO  LogLevel = 0
	WARN  LogLevel = 1
	ERROR LogLevel = 2
)

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
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string ("debug", "info", "warn", "error") to a
// LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return INFO, fmt.Errorf("logging: %w", err)
	}
	switch {
	case lvl <= log.DebugLevel:
		return DEBUG, nil
	case lvl == log.InfoLevel:
		return INFO, nil
	case lvl == log.WarnLevel:
		return WARN, nil
	default:
		return ERROR, nil
	}
}

func (l LogLevel) backend() log.Level {
	switch l {
	case DEBUG:
		return log.DebugLevel
	case WARN:
		return log.WarnLevel
	case ERROR:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

var (
	mu      sync.Mutex
	logger  *log.Logger
	logFile *os.File
	logPath string
	level   = INFO
)

func newBackend(w io.Writer, prefix string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
		Formatter:       log.LogfmtFormatter,
	})
	l.SetLevel(level.backend())
	return l
}

// InitLogger opens (or creates) the log file under the XDG state home
// (~/.local/state/<appName>/<appName>.log) and returns the resolved path.
func InitLogger(appName string) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	p, err := xdg.StateFile(filepath.Join(appName, appName+".log"))
	if err != nil {
		return "", fmt.Errorf("logging: resolve state path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("logging: create log dir: %w", err)
	}

	f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("logging: open log file: %w", err)
	}

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	logPath = p
	logger = newBackend(f, appName)
	return p, nil
}

// SetOutput sends subsequent records to w instead of the log file. Passing
// nil discards them.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if w == nil {
		logger = nil
		return
	}
	logger = newBackend(w, "")
}

// Tee keeps the current destination and additionally writes records to w.
func Tee(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		logger = newBackend(w, "")
		return
	}
	logger = newBackend(io.MultiWriter(logFile, w), "")
}

// SetLevel drops records below lvl.
func SetLevel(lvl LogLevel) {
	mu.Lock()
	defer mu.Unlock()

	level = lvl
	if logger != nil {
		logger.SetLevel(lvl.backend())
	}
}

// Log writes a structured record. Safe to call from any goroutine.
// If the logger has not been initialised, the entry is silently dropped.
func Log(level LogLevel, scriptName, message string) {
	mu.Lock()
	l := logger
	mu.Unlock()

	if l == nil {
		return
	}

	var kv []any
	if scriptName != "" {
		kv = []any{"script", scriptName}
	}
	switch level {
	case DEBUG:
		l.Debug(message, kv...)
	case WARN:
		l.Warn(message, kv...)
	case ERROR:
		l.Error(message, kv...)
	default:
		l.Info(message, kv...)
	}
}

// Logf is Log with fmt.Sprintf formatting.
func Logf(level LogLevel, scriptName, format string, args ...any) {
	Log(level, scriptName, fmt.Sprintf(format, args...))
}

// Path returns the resolved log file path (empty string if not initialised).
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}
