package log

import "testing"

func TestParseLevelDefaultsToInfoOnUnknownInput(t *testing.T) {
	if got := ParseLevel("silly"); got != ParseLevel("info") {
		t.Errorf("ParseLevel(silly) = %v, want Info", got)
	}
}

func TestCoreWithoutLogsDirStillFillsRingBuffer(t *testing.T) {
	c, err := New(Options{RingSize: 10})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.CurrentLogFile() != "" {
		t.Errorf("CurrentLogFile = %q, want empty with no LogsDir", c.CurrentLogFile())
	}

	c.Info("connected", "host", "example.com", "password", "hunter2")

	entries := c.ReadRecentLogs(10)
	if len(entries) != 1 {
		t.Fatalf("ReadRecentLogs returned %d entries, want 1", len(entries))
	}
	if entries[0].Message != "connected" {
		t.Errorf("Message = %q", entries[0].Message)
	}
	if entries[0].Metadata["password"] != Redacted {
		t.Errorf("password metadata = %v, want redacted", entries[0].Metadata["password"])
	}
	if entries[0].Metadata["host"] != "example.com" {
		t.Errorf("host metadata = %v, want unchanged", entries[0].Metadata["host"])
	}
}

func TestCoreReadRecentLogsCapsAtRingSize(t *testing.T) {
	c, err := New(Options{RingSize: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Info("first")
	c.Info("second")
	c.Info("third")

	entries := c.ReadRecentLogs(10)
	if len(entries) != 2 {
		t.Fatalf("ReadRecentLogs returned %d entries, want 2", len(entries))
	}
	if entries[0].Message != "second" || entries[1].Message != "third" {
		t.Errorf("entries = %+v, want [second third]", entries)
	}
}

func TestCoreCreateChildStampsDistinctContext(t *testing.T) {
	c, err := New(Options{RingSize: 10})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	child := c.CreateChild("connection-1")
	child.Info("executed command")

	entries := c.ReadRecentLogs(10)
	if len(entries) != 1 {
		t.Fatalf("ReadRecentLogs returned %d entries, want 1", len(entries))
	}
	if entries[0].Context != "connection-1" {
		t.Errorf("Context = %q, want %q", entries[0].Context, "connection-1")
	}
}
