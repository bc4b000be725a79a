package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Options configures a Logger
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // text or json
	File   string    // optional log file, appended to
	Writer io.Writer // console sink; nil means stderr
}

// Logger writes structured run logs through slog
type Logger struct {
	mu       sync.Mutex
	log      *slog.Logger
	file     *os.File
	filePath string
}

// New creates a logger writing to the console sink and, if set, a log file
func New(opts Options) (*Logger, error) {
	var w io.Writer = os.Stderr
	if opts.Writer != nil {
		w = opts.Writer
	}

	l := &Logger{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = file
		l.filePath = opts.File
		w = io.MultiWriter(w, file)
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	l.log = slog.New(handler)

	return l, nil
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{log: slog.New(slog.DiscardHandler)}
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// With returns a logger that adds attrs to every record. The derived logger
// writes to the same sinks, but only the logger from New owns the file:
// Close on a derived logger is a no-op.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return Nop()
	}
	return &Logger{log: l.log.With(args...), filePath: l.filePath}
}

// Slog exposes the underlying slog logger
func (l *Logger) Slog() *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.log
}

// Log writes an info record
func (l *Logger) Log(msg string, args ...any) {
	if l == nil {
		return
	}
	l.log.Info(msg, args...)
}

// Debug writes a debug record
func (l *Logger) Debug(msg string, args ...any) {
	if l == nil {
		return
	}
	l.log.Debug(msg, args...)
}

// LogStep records a state transition of an orchestration run
func (l *Logger) LogStep(step int, state string) {
	l.Debug("step", "step", step, "state", state)
}

// LogModelAttempt records one endpoint dialect attempt
func (l *Logger) LogModelAttempt(dialect, url string, elapsed time.Duration, err error) {
	if l == nil {
		return
	}
	if err != nil {
		l.log.Warn("model attempt failed", "dialect", dialect, "url", url, "elapsed", elapsed, "error", truncate(err.Error(), 300))
		return
	}
	l.log.Debug("model attempt succeeded", "dialect", dialect, "url", url, "elapsed", elapsed)
}

// LogToolCall logs a tool execution
func (l *Logger) LogToolCall(toolName, input, output string) {
	l.Log("tool call", "tool", toolName, "input", truncate(input, 100), "output", truncate(output, 200))
}

// LogOutcome logs how a run ended
func (l *Logger) LogOutcome(ok bool, text string, elapsed time.Duration) {
	if l == nil {
		return
	}
	if ok {
		l.log.Info("run completed", "response", truncate(text, 200), "elapsed", elapsed)
		return
	}
	l.log.Warn("run failed", "error", truncate(text, 300), "elapsed", elapsed)
}

// LogError logs an error
func (l *Logger) LogError(err error) {
	if l == nil || err == nil {
		return
	}
	l.log.Error(err.Error())
}

// Close closes the log file, if any
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.file.Close()
	l.file = nil
	return err
}

// GetFilePath returns the log file path
func (l *Logger) GetFilePath() string {
	if l == nil {
		return ""
	}
	return l.filePath
}

// truncate shortens a string for logging
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
