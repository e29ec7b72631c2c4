package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log is the process-wide logger. It discards output until Init is called so
// packages can log from tests without setup.
var Log = slog.New(slog.NewTextHandler(io.Discard, nil))

// ParseLevel maps a config string to a slog level. Unknown values fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// Init builds the global logger writing to stderr and, when logFile is set,
// appending to that file as well. The returned closer releases the file.
func Init(level string, logFile string) (io.Closer, error) {
	writers := []io.Writer{os.Stderr}
	var closer io.Closer = nopCloser{}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	Log = slog.New(newHandler(io.MultiWriter(writers...), ParseLevel(level)))
	slog.SetDefault(Log)
	return closer, nil
}

func newHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String("time", a.Value.Time().Format("15:04:05"))
			}
			return a
		},
	})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
