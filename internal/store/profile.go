// Package store implements the durable per-user state described for the
// credential store: connection profiles and the global command history ring,
// persisted as UTF-8 JSON with atomic temp-file-then-rename writes.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

// Profile is a saved connection shortcut. It has no password field, so no
// password is ever written into profiles.json; HasStoredPassword is only a
// flag (see DESIGN.md for the Open Question this resolves).
type Profile struct {
	ID                      string    `json:"id"`
	Name                    string    `json:"name"`
	Host                    string    `json:"host"`
	Port                    int       `json:"port"`
	Username                string    `json:"username"`
	PrivateKeyPath          string    `json:"privateKeyPath,omitempty"`
	HasStoredPassword       bool      `json:"hasStoredPassword,omitempty"`
	LastUsed                time.Time `json:"lastUsed"`
	LogsDirectory           string    `json:"logsDirectory,omitempty"`
	CommandHistory          []string  `json:"commandHistory,omitempty"`
	Tags                    []string  `json:"tags,omitempty"`
	Favorited               bool      `json:"favorited,omitempty"`
	ConnectionCount         int       `json:"connectionCount,omitempty"`
	TotalSessionTimeSeconds int       `json:"totalSessionTimeSeconds,omitempty"`
}

const maxProfileCommandHistory = 100

// Store owns profiles.json and the global command history file, guaranteeing
// per-file serialized, linearizable writes across concurrent callers.
type Store struct {
	profilesPath string
	historyPath  string

	profilesMu sync.Mutex
	historyMu  sync.Mutex
}

// New returns a Store rooted at the given profiles and command-history paths.
func New(profilesPath, historyPath string) *Store {
	return &Store{profilesPath: profilesPath, historyPath: historyPath}
}

// LoadProfiles reads profiles.json. A missing file returns an empty slice, never an error.
func (s *Store) LoadProfiles() ([]Profile, error) {
	s.profilesMu.Lock()
	defer s.profilesMu.Unlock()

	data, err := os.ReadFile(s.profilesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Profile{}, nil
		}
		return nil, fmt.Errorf("read profiles file: %w", err)
	}
	if len(data) == 0 {
		return []Profile{}, nil
	}

	var profiles []Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse profiles file: %w", err)
	}
	return profiles, nil
}

// SaveProfiles atomically persists the given profile list, rejecting any
// profile whose Name is empty after trimming (invariant ii in §3).
func (s *Store) SaveProfiles(profiles []Profile) error {
	for i, p := range profiles {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("profile %s has an empty name, refusing to save", p.ID)
		}
		profiles[i].CommandHistory = clampProfileHistory(p.CommandHistory)
	}

	s.profilesMu.Lock()
	defer s.profilesMu.Unlock()

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}
	return writeFileAtomic(s.profilesPath, data, 0o600)
}

// NewProfileID mints an opaque profile identifier.
func NewProfileID() string {
	id, err := uuid.NewV4()
	if err != nil {
		// uuid.NewV4 only fails if the system RNG is unreadable; fall back to
		// a timestamp-derived id rather than leaving a profile unaddressable.
		return fmt.Sprintf("profile-%d", time.Now().UnixNano())
	}
	return id.String()
}

// SortProfilesByID returns profiles sorted by ID, used by the round-trip law
// that save-then-load yields the same set regardless of on-disk ordering.
func SortProfilesByID(profiles []Profile) []Profile {
	sorted := make([]Profile, len(profiles))
	copy(sorted, profiles)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return sorted
}

// clampProfileHistory caps a profile's own command history at 100 entries, evicting the oldest first.
func clampProfileHistory(history []string) []string {
	if len(history) <= maxProfileCommandHistory {
		return history
	}
	return history[len(history)-maxProfileCommandHistory:]
}
