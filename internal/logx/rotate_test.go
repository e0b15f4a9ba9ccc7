package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRotatingWriterWritesToDailyFile(t *testing.T) {
	dir := t.TempDir()
	w := NewRotatingWriter(dir, 0)
	fixed := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	defer w.Close()

	want := filepath.Join(dir, "quantumxfer-2026-07-29.log")
	if w.CurrentPath() != want {
		t.Errorf("CurrentPath = %q, want %q", w.CurrentPath(), want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("log file contents = %q", string(data))
	}
}

func TestRotatingWriterRotatesOnSizeCap(t *testing.T) {
	dir := t.TempDir()
	w := NewRotatingWriter(dir, 10)
	fixed := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }
	defer w.Close()

	if _, err := w.Write([]byte("0123456789")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if _, err := w.Write([]byte("overflow")); err != nil {
		t.Fatalf("second write: %v", err)
	}

	rotated := filepath.Join(dir, "quantumxfer-2026-07-29.log.1")
	if _, err := os.Stat(rotated); err != nil {
		t.Errorf("expected rotated file %q to exist: %v", rotated, err)
	}
	current, err := os.ReadFile(w.CurrentPath())
	if err != nil {
		t.Fatalf("read current file: %v", err)
	}
	if string(current) != "overflow" {
		t.Errorf("current file contents = %q, want %q", string(current), "overflow")
	}
}

func TestRotatingWriterRollsOverOnDateChange(t *testing.T) {
	dir := t.TempDir()
	w := NewRotatingWriter(dir, 0)
	day1 := time.Date(2026, 7, 29, 23, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return day1 }
	defer w.Close()

	if _, err := w.Write([]byte("day one\n")); err != nil {
		t.Fatalf("write day one: %v", err)
	}

	day2 := time.Date(2026, 7, 30, 0, 1, 0, 0, time.UTC)
	w.now = func() time.Time { return day2 }
	if _, err := w.Write([]byte("day two\n")); err != nil {
		t.Fatalf("write day two: %v", err)
	}

	if w.CurrentPath() != filepath.Join(dir, "quantumxfer-2026-07-30.log") {
		t.Errorf("CurrentPath = %q, want day-two file", w.CurrentPath())
	}
	firstDayData, err := os.ReadFile(filepath.Join(dir, "quantumxfer-2026-07-29.log"))
	if err != nil {
		t.Fatalf("read day-one file: %v", err)
	}
	if string(firstDayData) != "day one\n" {
		t.Errorf("day-one file contents = %q", string(firstDayData))
	}
}
