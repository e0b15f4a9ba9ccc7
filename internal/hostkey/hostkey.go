// Package hostkey builds an ssh.HostKeyCallback backed by a known_hosts file,
// adding unseen host keys on first contact (trust-on-first-use) rather than
// silently accepting anything the remote end presents.
package hostkey

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// ErrMismatch is returned when a presented host key does not match the
// entry already recorded for that host in known_hosts.
var ErrMismatch = errors.New("host key mismatch")

var mu sync.Mutex

// DefaultPath is the conventional known_hosts location, relative to the
// caller's home directory.
const DefaultPath = "~/.ssh/known_hosts"

// CallbackFromFile returns a HostKeyCallback backed by the known_hosts file
// at path, creating an empty one if it does not exist yet. Unknown hosts are
// appended on first successful handshake; a presented key that contradicts
// an existing entry is rejected with ErrMismatch.
func CallbackFromFile(path string) (ssh.HostKeyCallback, error) {
	if err := ensureFile(path); err != nil {
		return nil, err
	}

	base, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("read known_hosts file %s: %w", path, err)
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		mu.Lock()
		defer mu.Unlock()

		err := base(hostname, remote, key)
		if err == nil {
			return nil
		}

		var keyErr *knownhosts.KeyError
		if !errors.As(err, &keyErr) || len(keyErr.Want) > 0 {
			return fmt.Errorf("%w: %w", ErrMismatch, err)
		}

		return appendHostKey(path, hostname, remote, key)
	}, nil
}

// appendHostKey records key under hostname, the same address knownhosts
// looks up on later contacts, falling back to the remote address when no
// hostname was given.
func appendHostKey(path, hostname string, remote net.Addr, key ssh.PublicKey) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open known_hosts file for append: %w", err)
	}
	defer f.Close()

	address := hostname
	if address == "" {
		address = remote.String()
	}
	line := knownhosts.Line([]string{knownhosts.Normalize(address)}, key)
	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("append known_hosts entry: %w", err)
	}
	return nil
}

func ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create known_hosts directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("create known_hosts file: %w", err)
	}
	return f.Close()
}
