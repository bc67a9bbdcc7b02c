package internal

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	logFile *os.File
	logPath string

	setupOnce   sync.Once
	multiWriter io.Writer

	loggerOnce sync.Once
	logger     *slog.Logger
	levelVar   *slog.LevelVar

	internalLoggerOnce sync.Once
	internalLogger     *slog.Logger
	internalLevelVar   *slog.LevelVar
)

// SetLogPath sets the full path for the log file, including filename.
// Parent directories are created on first use. An empty path logs to stdout only.
func SetLogPath(path string) {
	logPath = path
}

func setup() {
	setupOnce.Do(func() {
		multiWriter = os.Stdout

		if logPath == "" {
			return
		}

		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return
		}

		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			// Can't open log file, fall back to console-only
			return
		}

		logFile = f
		multiWriter = io.MultiWriter(os.Stdout, logFile)
	})
}

// GetLogger returns the application logger.
func GetLogger() *slog.Logger {
	loggerOnce.Do(func() {
		levelVar = &slog.LevelVar{}

		setup()

		logger = slog.New(slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{
			Level: levelVar,
		}))
	})
	return logger
}

// GetInternalLogger returns the logger used by the framework itself.
func GetInternalLogger() *slog.Logger {
	internalLoggerOnce.Do(func() {
		internalLevelVar = &slog.LevelVar{}
		internalLevelVar.Set(slog.LevelError)

		setup()

		internalLogger = slog.New(slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{
			Level: internalLevelVar,
		}))
	})
	return internalLogger
}

// LoggerOr returns l, or the internal logger when l is nil.
func LoggerOr(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return GetInternalLogger()
}

func SetLogLevel(level slog.Level) {
	GetLogger()
	levelVar.Set(level)
}

func SetInternalLogLevel(level slog.Level) {
	GetInternalLogger()
	internalLevelVar.Set(level)
}

// ParseLevel maps a level name to a slog.Level, defaulting to Info.
func ParseLevel(rawLevel string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(rawLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func SetRawLogLevel(rawLevel string) {
	SetLogLevel(ParseLevel(rawLevel))
}

func CloseLogger() {
	if logFile != nil {
		logFile.Close()
	}
}
