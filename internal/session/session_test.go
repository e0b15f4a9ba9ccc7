package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"golang.org/x/crypto/ssh"
)

func TestPermissionsString(t *testing.T) {
	cases := []struct {
		mode os.FileMode
		want string
	}{
		{0o755, "rwxr-xr-x"},
		{0o644, "rw-r--r--"},
		{0o600, "rw-------"},
		{0o000, "---------"},
	}
	for _, c := range cases {
		if got := permissionsString(c.mode); got != c.want {
			t.Errorf("permissionsString(%o) = %q, want %q", c.mode, got, c.want)
		}
	}
}

func TestExitCodeOf(t *testing.T) {
	if got := exitCodeOf(nil); got != 0 {
		t.Errorf("exitCodeOf(nil) = %d, want 0", got)
	}
	if got := exitCodeOf(&ssh.ExitError{}); got != 0 {
		t.Errorf("exitCodeOf(zero ExitStatus) = %d, want 0", got)
	}
	if got := exitCodeOf(errors.New("connection reset")); got != -1 {
		t.Errorf("exitCodeOf(generic error) = %d, want -1", got)
	}
}

func TestCopyInChunksRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var dst bytes.Buffer
	src := bytes.NewBufferString("hello world")
	_, err := copyInChunks(ctx, &dst, src)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCopyInChunksCopiesEverything(t *testing.T) {
	var dst bytes.Buffer
	payload := bytes.Repeat([]byte("x"), transferChunkSize*3+17)
	src := bytes.NewReader(payload)

	n, err := copyInChunks(context.Background(), &dst, src)
	if err != nil {
		t.Fatalf("copyInChunks: %v", err)
	}
	if n != int64(len(payload)) {
		t.Errorf("copied %d bytes, want %d", n, len(payload))
	}
	if !bytes.Equal(dst.Bytes(), payload) {
		t.Error("destination content does not match source")
	}
}

func TestThrottledCounterReportsCancellation(t *testing.T) {
	counter := &throttledCounter{
		w:          io.Discard,
		totalSize:  100,
		transferID: "t1",
		cancel:     func() bool { return true },
	}
	_, err := counter.Write([]byte("data"))
	var sessErr *Error
	if !errors.As(err, &sessErr) || sessErr.Code != CodeCancelled {
		t.Fatalf("expected a CANCELLED session error, got %v", err)
	}
}

func TestDisconnectUnknownIDReportsNoConnection(t *testing.T) {
	m := NewManager()
	result := m.Disconnect(999)
	if result.Success || result.Code != CodeNoConnection {
		t.Fatalf("expected NO_CONNECTION, got %+v", result)
	}
}

func TestDisconnectAllIsIdempotentOnEmptyPool(t *testing.T) {
	m := NewManager()
	m.DisconnectAll()
	m.DisconnectAll()
}

func TestExecuteCommandUnknownIDReportsNoConnection(t *testing.T) {
	m := NewManager()
	result := m.ExecuteCommand(999, "ls", 0)
	if result.Success || result.Code != CodeNoConnection {
		t.Fatalf("expected NO_CONNECTION, got %+v", result)
	}
}

func TestApplyUserSSHConfigDefaultsFillsOnlyGaps(t *testing.T) {
	orig := sshConfigGet
	defer func() { sshConfigGet = orig }()
	sshConfigGet = func(alias, key string) string {
		switch key {
		case "Port":
			return "2222"
		case "User":
			return "configured-user"
		}
		return ""
	}

	cfg := ConnectionConfig{Host: "example.com", Username: "explicit-user"}
	applyUserSSHConfigDefaults(&cfg)

	if cfg.Port != 2222 {
		t.Errorf("Port = %d, want 2222 from ssh_config", cfg.Port)
	}
	if cfg.Username != "explicit-user" {
		t.Errorf("Username = %q, an explicitly supplied value must never be overridden", cfg.Username)
	}
}

func TestWrapRedactedScrubsPassword(t *testing.T) {
	var buf bytes.Buffer
	w := wrapRedacted(ConnectionConfig{Password: "hunter2"}, &buf)
	io.WriteString(w, "login failed for hunter2\n")
	w.Close()

	if bytes.Contains(buf.Bytes(), []byte("hunter2")) {
		t.Errorf("captured output still contains the password: %q", buf.String())
	}
}

func TestWrapRedactedPassesThroughWithoutCredentials(t *testing.T) {
	var buf bytes.Buffer
	w := wrapRedacted(ConnectionConfig{}, &buf)
	io.WriteString(w, "plain output\n")
	w.Close()

	if buf.String() != "plain output\n" {
		t.Errorf("got %q, want unmodified passthrough", buf.String())
	}
}
