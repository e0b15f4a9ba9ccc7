//go:build windows

package keys

import (
	"fmt"
	"os"
)

// restrictToOwner is a best-effort equivalent of 0o600 on Windows. The Go
// runtime maps os.Chmod to the read-only attribute bit on this platform, not
// a real ACL; a full per-owner ACL would require shelling out to icacls or
// adding a dedicated ACL dependency, which is out of scope here.
func restrictToOwner(path string) error {
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("restrict private key permissions: %w", err)
	}
	return nil
}
