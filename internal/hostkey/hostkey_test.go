package hostkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"net"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/ssh"
)

type fakeAddr struct{ s string }

func (a fakeAddr) Network() string { return "tcp" }
func (a fakeAddr) String() string  { return a.s }

func newTestSigner(t *testing.T) ssh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("wrap public key: %v", err)
	}
	return signer
}

func TestCallbackFromFileTrustsUnseenHostOnFirstContact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_hosts")
	cb, err := CallbackFromFile(path)
	if err != nil {
		t.Fatalf("CallbackFromFile: %v", err)
	}

	key := newTestSigner(t)
	addr := fakeAddr{s: "192.0.2.1:22"}
	if err := cb("example.com:22", addr, key); err != nil {
		t.Fatalf("first contact should be trusted, got: %v", err)
	}
}

func TestCallbackFromFileAcceptsMatchingKeyOnSecondContact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_hosts")
	cb, err := CallbackFromFile(path)
	if err != nil {
		t.Fatalf("CallbackFromFile: %v", err)
	}

	key := newTestSigner(t)
	addr := fakeAddr{s: "192.0.2.1:22"}
	if err := cb("example.com:22", addr, key); err != nil {
		t.Fatalf("first contact: %v", err)
	}

	cb2, err := CallbackFromFile(path)
	if err != nil {
		t.Fatalf("CallbackFromFile reopen: %v", err)
	}
	if err := cb2("example.com:22", addr, key); err != nil {
		t.Errorf("second contact with the same key should be trusted, got: %v", err)
	}
}

func TestCallbackFromFileRejectsChangedKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_hosts")
	cb, err := CallbackFromFile(path)
	if err != nil {
		t.Fatalf("CallbackFromFile: %v", err)
	}

	addr := fakeAddr{s: "192.0.2.1:22"}
	first := newTestSigner(t)
	if err := cb("example.com:22", addr, first); err != nil {
		t.Fatalf("first contact: %v", err)
	}

	cb2, err := CallbackFromFile(path)
	if err != nil {
		t.Fatalf("CallbackFromFile reopen: %v", err)
	}
	second := newTestSigner(t)
	if err := cb2("example.com:22", addr, second); err == nil {
		t.Fatal("expected a mismatch error for a changed host key")
	}
}
