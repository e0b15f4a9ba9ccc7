package session

import (
	"os"
	"path"
	"sort"
)

// ListDirectory lists remotePath's immediate children via the connection's
// (lazily opened, reused) SFTP subchannel.
func (m *Manager) ListDirectory(id uint64, remotePath string) ListDirectoryResult {
	if remotePath == "" {
		remotePath = "."
	}

	conn, err := m.lookup(id)
	if err != nil {
		return ListDirectoryResult{Success: false, Code: CodeNoConnection, Error: err.Error()}
	}

	var entries []RemoteFile
	opErr := conn.submit(func() error {
		client, err := conn.getSFTP()
		if err != nil {
			return err
		}
		infos, err := client.ReadDir(remotePath)
		if err != nil {
			return newError(CodeReaddirError, "read directory %s: %v", remotePath, err)
		}
		for _, info := range infos {
			entries = append(entries, toRemoteFile(info, path.Join(remotePath, info.Name())))
		}
		return nil
	})

	if opErr != nil {
		return toListDirectoryFailure(opErr)
	}
	return ListDirectoryResult{Success: true, Entries: entries}
}

func toListDirectoryFailure(err error) ListDirectoryResult {
	if sessErr, ok := err.(*Error); ok { //nolint:errorlint // constructed exclusively by this package
		return ListDirectoryResult{Success: false, Code: sessErr.Code, Error: sessErr.Message}
	}
	return ListDirectoryResult{Success: false, Code: CodeReaddirError, Error: err.Error()}
}

// ListDirectoryRecursive walks root depth-first, directories before files at
// each level and lexicographic by name within a level, truncating at
// opts.MaxFiles and opts.MaxDepth (0 means unlimited for either).
func (m *Manager) ListDirectoryRecursive(id uint64, root string, opts RecursiveListOptions) RecursiveListResult {
	if root == "" {
		root = "."
	}

	conn, err := m.lookup(id)
	if err != nil {
		return RecursiveListResult{Success: false, Code: CodeNoConnection, Error: err.Error()}
	}

	var (
		entries   []RemoteFile
		truncated bool
	)

	opErr := conn.submit(func() error {
		client, err := conn.getSFTP()
		if err != nil {
			return err
		}
		var walk func(dir string, depth int) error
		walk = func(dir string, depth int) error {
			if opts.MaxDepth > 0 && depth > opts.MaxDepth {
				return nil
			}
			infos, err := client.ReadDir(dir)
			if err != nil {
				return newError(CodeReaddirError, "read directory %s: %v", dir, err)
			}
			sort.Slice(infos, func(i, j int) bool {
				if infos[i].IsDir() != infos[j].IsDir() {
					return infos[i].IsDir()
				}
				return infos[i].Name() < infos[j].Name()
			})
			for _, info := range infos {
				if opts.MaxFiles > 0 && len(entries) >= opts.MaxFiles {
					truncated = true
					return nil
				}
				childPath := path.Join(dir, info.Name())
				entries = append(entries, toRemoteFile(info, childPath))
				if info.IsDir() {
					if err := walk(childPath, depth+1); err != nil {
						return err
					}
				}
			}
			return nil
		}
		return walk(root, 1)
	})

	if opErr != nil {
		if sessErr, ok := opErr.(*Error); ok { //nolint:errorlint // constructed exclusively by this package
			return RecursiveListResult{Success: false, Code: sessErr.Code, Error: sessErr.Message}
		}
		return RecursiveListResult{Success: false, Code: CodeReaddirError, Error: opErr.Error()}
	}

	return RecursiveListResult{
		Success:    true,
		Entries:    entries,
		TotalFiles: len(entries),
		Truncated:  truncated,
		MaxDepth:   opts.MaxDepth,
	}
}

func toRemoteFile(info os.FileInfo, absolutePath string) RemoteFile {
	kind := KindFile
	switch {
	case info.IsDir():
		kind = KindDirectory
	case info.Mode()&os.ModeSymlink != 0:
		kind = KindSymlink
	}

	return RemoteFile{
		Name:              info.Name(),
		Kind:              kind,
		SizeBytes:         info.Size(),
		Mtime:             info.ModTime().UTC(),
		PermissionsString: permissionsString(info.Mode()),
		AbsolutePath:      absolutePath,
	}
}

// permissionsString renders the owner/group/other rwx bits of mode as a
// 9-character string, e.g. "rwxr-xr-x".
func permissionsString(mode os.FileMode) string {
	const bits = "rwxrwxrwx"
	perm := mode.Perm()
	out := make([]byte, 9)
	for i := range out {
		if perm&(1<<uint(8-i)) != 0 {
			out[i] = bits[i]
		} else {
			out[i] = '-'
		}
	}
	return string(out)
}
