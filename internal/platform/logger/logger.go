package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu   sync.RWMutex
	base *slog.Logger
)

func init() {
	Init(os.Getenv("LOG_LEVEL"))
}

// Init rebuilds the process logger as a JSON logger on stdout at the given level.
func Init(level string) {
	setLogger(os.Stdout, level)
}

// SetOutput redirects the logger, mostly for tests.
func SetOutput(w io.Writer, level string) {
	setLogger(w, level)
}

func setLogger(w io.Writer, level string) {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	})
	l := slog.New(h).With("service", "dummyshop")

	mu.Lock()
	base = l
	mu.Unlock()
}

// L returns the underlying structured logger.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

func Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.Any("err", err))
	}
	L().Error(msg, args...)
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
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
