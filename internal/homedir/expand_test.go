//go:build !windows

package homedir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandLeavesNonTildePathsAlone(t *testing.T) {
	if got, err := Expand("/etc/ssh/known_hosts"); err != nil || got != "/etc/ssh/known_hosts" {
		t.Errorf("Expand = %q, %v", got, err)
	}
}

func TestExpandResolvesTildePrefix(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory available: %v", err)
	}
	got, err := Expand("~/.ssh/id_ed25519")
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := filepath.Join(home, ".ssh", "id_ed25519")
	if got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpandRejectsOtherUserTildePaths(t *testing.T) {
	if _, err := Expand("~bob/.ssh/id_ed25519"); err == nil {
		t.Error("expected an error for a ~user/ style path")
	}
}
