// Package prefs persists the single user preference zotclip has: the active
// output mode. The preference is a small JSON record on disk, separate from
// the viper daemon config because it is mutated at runtime (tray/CLI mode
// switches) while the daemon keeps running.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"go.klb.dev/zotclip/internal/citation"
)

// record is the on-disk shape. Unknown keys are ignored on load.
type record struct {
	Mode string `json:"mode"`
}

// Store holds the active output mode in memory and mirrors it to disk.
//
// Mode never fails: a missing, unreadable, or corrupt file yields the
// default. SetMode swaps the in-memory value first so the engine observes
// the new mode even when the disk write fails.
type Store struct {
	path string
	mode atomic.Value // citation.Mode
}

// DefaultPath returns the preference file location:
// $XDG_CONFIG_HOME/zotclip/prefs.json, falling back to ~/.config/zotclip.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "zotclip", "prefs.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "zotclip", "prefs.json")
	}
	return filepath.Join(home, ".config", "zotclip", "prefs.json")
}

// Open loads the preference file at path, creating the Store with the
// default mode when the file is missing or malformed. Opening never fails;
// the file itself is only written on the next SetMode.
func Open(path string) *Store {
	s := &Store{path: path}
	s.mode.Store(citation.DefaultMode)

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return s
	}
	s.mode.Store(citation.ParseMode(rec.Mode))
	return s
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Mode returns the active output mode.
func (s *Store) Mode() citation.Mode {
	return s.mode.Load().(citation.Mode)
}

// SetMode makes mode active immediately and then persists it. A write error
// is returned for the caller to log; the in-memory value stays in effect for
// the rest of the session either way.
func (s *Store) SetMode(mode citation.Mode) error {
	s.mode.Store(mode)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("prefs dir: %w", err)
	}
	data, err := json.MarshalIndent(record{Mode: string(mode)}, "", "  ")
	if err != nil {
		return fmt.Errorf("prefs encode: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("prefs write: %w", err)
	}
	return nil
}
