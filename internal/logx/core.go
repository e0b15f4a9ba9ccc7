package log

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Core is the leveled, structured, rotating log sink described for the
// session core. It satisfies the Logger interface so it can be injected
// anywhere a LoggerInjectable expects one.
type Core struct {
	slog    *slog.Logger
	handler *recordingHandler
	writer  *RotatingWriter
	ring    *ringBuffer
}

// Options configures a Core.
type Options struct {
	// LogsDir is the directory rotated log files are written to.
	LogsDir string
	// Console, when true, additionally writes entries to stderr.
	Console bool
	// Level is the minimum level emitted, one of debug/info/warn/error.
	Level string
	// MaxBytes caps the size of a single rotated file. 0 uses DefaultMaxBytes.
	MaxBytes int64
	// RingSize bounds how many recent entries ReadRecentLogs can return. 0 uses 1000.
	RingSize int
}

// ParseLevel maps a level name to a slog.Level, defaulting to Info for unknown input.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// New builds a Core from Options. LogsDir may be empty, in which case only the
// console sink (if enabled) and the in-memory ring buffer are active.
func New(opts Options) (*Core, error) {
	ringSize := opts.RingSize
	if ringSize <= 0 {
		ringSize = 1000
	}
	ring := newRingBuffer(ringSize)

	var writer *RotatingWriter
	var fileSink io.Writer
	if opts.LogsDir != "" {
		writer = NewRotatingWriter(opts.LogsDir, opts.MaxBytes)
		fileSink = writer
	}

	var consoleSink io.Writer
	if opts.Console {
		consoleSink = os.Stderr
	}

	level := ParseLevel(opts.Level)

	h := newRecordingHandler(fileSink, consoleSink, level, ring)
	return &Core{
		slog:    slog.New(h),
		handler: h,
		writer:  writer,
		ring:    ring,
	}, nil
}

// reportSwallowedFailures emits a Warn entry describing how many writes were
// swallowed since the last report, satisfying the §4.2 recovery policy.
func (c *Core) reportSwallowedFailures() {
	if c.writer == nil {
		return
	}
	if n := c.writer.Failures(); n > 0 {
		c.writer.ResetFailures()
		c.slog.Warn("log sink recovered after write failures", "count", n)
	}
}

func (c *Core) Debug(msg string, kv ...any) { c.log(slog.LevelDebug, msg, kv) }
func (c *Core) Info(msg string, kv ...any)   { c.log(slog.LevelInfo, msg, kv) }
func (c *Core) Warn(msg string, kv ...any)   { c.log(slog.LevelWarn, msg, kv) }
func (c *Core) Error(msg string, kv ...any)  { c.log(slog.LevelError, msg, kv) }

func (c *Core) log(level slog.Level, msg string, kv []any) {
	c.reportSwallowedFailures()
	c.slog.Log(context.Background(), level, msg, kv...)
}

// CreateChild returns a logger sharing this Core's sinks and level but
// stamping a different context on every entry it emits.
func (c *Core) CreateChild(childContext string) *Core {
	child := *c
	child.slog = slog.New(c.handler.WithGroup(childContext).(*recordingHandler))
	return &child
}

// ReadRecentLogs returns the n most recent entries held in the ring buffer, oldest first.
func (c *Core) ReadRecentLogs(n int) []Entry {
	return c.ring.last(n)
}

// ExportLogs writes every entry currently held in the ring buffer to path as
// newline-delimited JSON, for user-initiated log download.
func (c *Core) ExportLogs(path string) error {
	entries := c.ring.last(0)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encode log entry: %w", err)
		}
	}
	return nil
}

// CurrentLogFile returns the path of the file currently being appended to, or
// an empty string when no file sink is configured.
func (c *Core) CurrentLogFile() string {
	if c.writer == nil {
		return ""
	}
	return c.writer.CurrentPath()
}

// Close flushes and closes the underlying file handle.
func (c *Core) Close() error {
	if c.writer == nil {
		return nil
	}
	return c.writer.Close()
}
