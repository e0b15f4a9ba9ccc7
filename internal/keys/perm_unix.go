//go:build !windows

package keys

import (
	"fmt"
	"os"
)

// restrictToOwner enforces 0o600 on POSIX filesystems. os.WriteFile already
// applies the mode at create time; this re-asserts it in case the file
// pre-existed with broader permissions.
func restrictToOwner(path string) error {
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("restrict private key permissions: %w", err)
	}
	return nil
}
