package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"storecli/internal/config"
)

var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// Logger is the JSON logger of one report run. When the configuration sends
// logs to a file, the Logger owns that file until Close.
type Logger struct {
	*slog.Logger
	file *os.File
}

// NewLogger builds a run logger. Console output goes to console; file output
// is appended to cfg.FilePath, creating its directory first.
func NewLogger(cfg config.LoggingConfig, console io.Writer) (*Logger, error) {
	l := &Logger{}

	output := strings.ToLower(cfg.Output)
	var out io.Writer
	switch output {
	case "file", "both":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		l.file = file
		out = file
		if output == "both" {
			out = io.MultiWriter(console, file)
		}
	default:
		out = console
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		AddSource: true,
		Level:     ParseLogLevel(cfg.Level),
	})
	l.Logger = slog.New(&traceHandler{Handler: handler})
	return l, nil
}

// Close releases the log file, if any. It is safe to call more than once.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ParseLogLevel maps a configured level name to a slog level. Unknown names
// log at info.
func ParseLogLevel(level string) slog.Level {
	if lvl, ok := logLevels[strings.ToLower(level)]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// traceHandler stamps every record with the run's trace_id from the context
type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID := GetTraceID(ctx); traceID != "" {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), config.DirPermissions); err != nil {
		return nil, fmt.Errorf("create log directory for %s: %w", path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, config.FilePermissions)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
