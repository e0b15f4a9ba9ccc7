package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultMaxBytes is the default size cap of a single rotated log file, 10 MiB.
const DefaultMaxBytes = 10 * 1024 * 1024

// RotatingWriter is an io.Writer that writes to a daily file named
// "quantumxfer-YYYY-MM-DD.log" inside dir. When a write would grow the current
// file past maxBytes, the file is moved aside under the next free ordinal
// suffix and a fresh one is opened; when the date rolls over, writing moves
// on to the new day's file.
type RotatingWriter struct {
	dir      string
	prefix   string
	maxBytes int64
	now      func() time.Time

	mu       sync.Mutex
	file     *os.File
	size     int64
	day      string
	failures int
}

// NewRotatingWriter creates a RotatingWriter rooted at dir. maxBytes <= 0 uses DefaultMaxBytes.
func NewRotatingWriter(dir string, maxBytes int64) *RotatingWriter {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &RotatingWriter{
		dir:      dir,
		prefix:   "quantumxfer",
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

func (w *RotatingWriter) baseName(day string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s.log", w.prefix, day))
}

// Write implements io.Writer. Failures are reported but never panic; callers
// that want to observe them should check Failures().
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	day := w.now().Format("2006-01-02")
	if w.file == nil || day != w.day {
		if err := w.openLocked(day); err != nil {
			w.failures++
			return 0, err
		}
	} else if w.size+int64(len(p)) > w.maxBytes {
		if err := w.rotateLocked(); err != nil {
			w.failures++
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	if err != nil {
		w.failures++
	}
	return n, err
}

func (w *RotatingWriter) openLocked(day string) error {
	if w.file != nil {
		_ = w.file.Close()
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	name := w.baseName(day)
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	w.file = f
	w.day = day
	w.size = info.Size()
	return nil
}

// rotateLocked moves the current day's file aside under the next free ordinal
// suffix and opens a fresh file at the base name.
func (w *RotatingWriter) rotateLocked() error {
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}
	base := w.baseName(w.day)
	ordinal := 1
	for {
		target := fmt.Sprintf("%s.%d", base, ordinal)
		if _, err := os.Stat(target); os.IsNotExist(err) {
			if err := os.Rename(base, target); err != nil {
				return fmt.Errorf("rotate log file: %w", err)
			}
			break
		}
		ordinal++
	}
	return w.openLocked(w.day)
}

// Failures returns the number of write/rotation failures swallowed so far.
func (w *RotatingWriter) Failures() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failures
}

// ResetFailures zeroes the failure counter, called after it has been reported at Warn level.
func (w *RotatingWriter) ResetFailures() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failures = 0
}

// Close closes the underlying file handle, if any.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// CurrentPath returns the path of the file currently being written to.
func (w *RotatingWriter) CurrentPath() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.day == "" {
		return w.baseName(w.now().Format("2006-01-02"))
	}
	return w.baseName(w.day)
}
