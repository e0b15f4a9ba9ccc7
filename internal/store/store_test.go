package store_test

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shavali-arc/quantumxfer-sub002/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	return store.New(filepath.Join(dir, "profiles.json"), filepath.Join(dir, "command-history", "global-command-history.json"))
}

func TestLoadMissingFilesReturnEmpty(t *testing.T) {
	s := newTestStore(t)

	profiles, err := s.LoadProfiles()
	if err != nil || len(profiles) != 0 {
		t.Fatalf("expected empty profiles, got %v err=%v", profiles, err)
	}

	history, err := s.LoadCommandHistory()
	if err != nil || len(history) != 0 {
		t.Fatalf("expected empty history, got %v err=%v", history, err)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStore(t)

	profiles := []store.Profile{
		{ID: store.NewProfileID(), Name: "prod-db", Host: "10.0.0.1", Port: 22, Username: "ubuntu", LastUsed: time.Now().UTC().Truncate(time.Millisecond)},
		{ID: store.NewProfileID(), Name: "staging", Host: "10.0.0.2", Port: 2222, Username: "deploy", LastUsed: time.Now().UTC().Truncate(time.Millisecond)},
	}

	if err := s.SaveProfiles(profiles); err != nil {
		t.Fatalf("SaveProfiles: %v", err)
	}

	loaded, err := s.LoadProfiles()
	if err != nil {
		t.Fatalf("LoadProfiles: %v", err)
	}

	want := store.SortProfilesByID(profiles)
	got := store.SortProfilesByID(loaded)
	if len(want) != len(got) {
		t.Fatalf("expected %d profiles, got %d", len(want), len(got))
	}
	for i := range want {
		if want[i].ID != got[i].ID || want[i].Name != got[i].Name || !want[i].LastUsed.Equal(got[i].LastUsed) {
			t.Errorf("profile %d mismatch: want %+v got %+v", i, want[i], got[i])
		}
	}
}

func TestSaveProfilesRejectsEmptyName(t *testing.T) {
	s := newTestStore(t)
	err := s.SaveProfiles([]store.Profile{{ID: "1", Name: "   "}})
	if err == nil {
		t.Fatal("expected an error when saving a profile with a blank name")
	}
}

func TestSaveProfilesClampsPerProfileCommandHistory(t *testing.T) {
	s := newTestStore(t)

	history := make([]string, 150)
	for i := range history {
		history[i] = fmt.Sprintf("cmd-%d", i)
	}
	if err := s.SaveProfiles([]store.Profile{{ID: "1", Name: "big-history", CommandHistory: history}}); err != nil {
		t.Fatalf("SaveProfiles: %v", err)
	}

	loaded, err := s.LoadProfiles()
	if err != nil {
		t.Fatalf("LoadProfiles: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(loaded))
	}
	if got := len(loaded[0].CommandHistory); got != 100 {
		t.Fatalf("CommandHistory length = %d, want clamped to 100", got)
	}
	if loaded[0].CommandHistory[0] != "cmd-50" || loaded[0].CommandHistory[99] != "cmd-149" {
		t.Errorf("clamped history should keep the most recent 100 entries, got first=%q last=%q",
			loaded[0].CommandHistory[0], loaded[0].CommandHistory[99])
	}
}

func TestAppendCommandReturnsPostAppendIndex(t *testing.T) {
	s := newTestStore(t)

	idx, err := s.AppendCommand("ls -la")
	if err != nil {
		t.Fatalf("AppendCommand: %v", err)
	}
	if idx != 1 {
		t.Errorf("expected index 1, got %d", idx)
	}

	loaded, err := s.LoadCommandHistory()
	if err != nil {
		t.Fatalf("LoadCommandHistory: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != "ls -la" {
		t.Errorf("unexpected history: %v", loaded)
	}
}

func TestHistoryBoundedAt500(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 501; i++ {
		if _, err := s.AppendCommand(fmt.Sprintf("cmd-%d", i)); err != nil {
			t.Fatalf("AppendCommand(%d): %v", i, err)
		}
	}

	history, err := s.LoadCommandHistory()
	if err != nil {
		t.Fatalf("LoadCommandHistory: %v", err)
	}
	if len(history) != store.MaxGlobalHistory {
		t.Fatalf("expected exactly %d entries, got %d", store.MaxGlobalHistory, len(history))
	}
	if history[0] == "cmd-0" {
		t.Error("expected the first appended command to have been evicted")
	}
	if history[len(history)-1] != "cmd-500" {
		t.Errorf("expected last entry to be cmd-500, got %s", history[len(history)-1])
	}
}
