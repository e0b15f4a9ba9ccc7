package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// MaxGlobalHistory is the hard cap on the global command history ring (§3, §8.4).
const MaxGlobalHistory = 500

type historyFile struct {
	Commands  []string  `json:"commands"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoadCommandHistory reads the global command history file. A missing file
// returns an empty slice, never an error.
func (s *Store) LoadCommandHistory() ([]string, error) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	return s.loadCommandHistoryLocked()
}

func (s *Store) loadCommandHistoryLocked() ([]string, error) {
	data, err := os.ReadFile(s.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read command history file: %w", err)
	}
	if len(data) == 0 {
		return []string{}, nil
	}

	var f historyFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse command history file: %w", err)
	}
	return f.Commands, nil
}

// SaveCommandHistory atomically persists the given command list, truncating
// to the MaxGlobalHistory most recent entries (oldest evicted first) if needed.
func (s *Store) SaveCommandHistory(commands []string) error {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	return s.saveCommandHistoryLocked(commands)
}

func (s *Store) saveCommandHistoryLocked(commands []string) error {
	if len(commands) > MaxGlobalHistory {
		commands = commands[len(commands)-MaxGlobalHistory:]
	}
	f := historyFile{Commands: commands, UpdatedAt: time.Now().UTC()}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal command history: %w", err)
	}
	return writeFileAtomic(s.historyPath, data, 0o600)
}

// AppendCommand appends cmd to the global history under the store's history
// lock, so concurrent appends from multiple sessions are linearized and the
// returned index is the post-append length, capped at MaxGlobalHistory.
func (s *Store) AppendCommand(cmd string) (int, error) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	commands, err := s.loadCommandHistoryLocked()
	if err != nil {
		return 0, err
	}
	commands = append(commands, cmd)
	if len(commands) > MaxGlobalHistory {
		commands = commands[len(commands)-MaxGlobalHistory:]
	}
	if err := s.saveCommandHistoryLocked(commands); err != nil {
		return 0, err
	}
	return len(commands), nil
}
