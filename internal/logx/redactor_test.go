package log

import "testing"

func TestRedactStringScrubsEmbeddedKeyValueSecrets(t *testing.T) {
	in := "connect failed: password=hunter2 host=example.com"
	got := RedactString(in)
	if got != "connect failed: password=[REDACTED] host=example.com" {
		t.Errorf("RedactString = %q", got)
	}
}

func TestRedactStringLeavesPlainTextAlone(t *testing.T) {
	in := "listing directory /home/alice"
	if got := RedactString(in); got != in {
		t.Errorf("RedactString = %q, want unchanged %q", got, in)
	}
}

func TestRedactMetadataRedactsSensitiveKeysRecursively(t *testing.T) {
	v := map[string]any{
		"username": "alice",
		"password": "hunter2",
		"nested": map[string]any{
			"authToken": "abc123",
			"host":      "example.com",
		},
	}
	got, ok := RedactMetadata(v).(map[string]any)
	if !ok {
		t.Fatalf("RedactMetadata did not return a map: %#v", got)
	}
	if got["password"] != Redacted {
		t.Errorf("password = %v, want %q", got["password"], Redacted)
	}
	if got["username"] != "alice" {
		t.Errorf("username = %v, want unchanged", got["username"])
	}
	nested, ok := got["nested"].(map[string]any)
	if !ok {
		t.Fatalf("nested value did not survive as a map: %#v", got["nested"])
	}
	if nested["authToken"] != Redacted {
		t.Errorf("nested authToken = %v, want %q", nested["authToken"], Redacted)
	}
	if nested["host"] != "example.com" {
		t.Errorf("nested host = %v, want unchanged", nested["host"])
	}
}

func TestTruncateCommandLeavesShortCommandsAlone(t *testing.T) {
	if got := TruncateCommand("ls -la", 200); got != "ls -la" {
		t.Errorf("TruncateCommand = %q", got)
	}
}

func TestTruncateCommandTruncatesLongCommands(t *testing.T) {
	cmd := ""
	for i := 0; i < 250; i++ {
		cmd += "x"
	}
	got := TruncateCommand(cmd, 200)
	if len(got) != 203 || got[200:] != "..." {
		t.Errorf("TruncateCommand returned %d chars, want 200 + ellipsis", len(got))
	}
}
