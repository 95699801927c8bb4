package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/jorgebusarello-maker/agro-pluv/internal/rain"
)

// StateFileName is the durable snapshot file. The whole application
// state lives under this single name.
const StateFileName = "agrorain_state.json"

// FileStore owns the single AppState value and mirrors every change to
// a JSON snapshot on disk. Loading fails soft: a missing, malformed, or
// structurally invalid snapshot falls back to the default empty state
// rather than surfacing an error.
type FileStore struct {
	mu       sync.RWMutex
	path     string
	state    rain.AppState
	defaults rain.AppState
}

// Open creates a FileStore rooted at dir and rehydrates the snapshot.
// defaults supplies the season bounds (and empty collections) used when
// no usable snapshot exists.
func Open(dir string, defaults rain.AppState) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	s := &FileStore{
		path:     filepath.Join(dir, StateFileName),
		defaults: emptied(defaults),
	}
	s.state = s.load()
	return s, nil
}

// Current returns a deep copy of the latest state. Callers may modify
// the returned value freely without affecting the stored snapshot.
func (s *FileStore) Current() rain.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Replace swaps the in-memory state and synchronously writes the full
// serialized snapshot. The in-memory state is updated even when the
// write fails, so a transient disk error degrades durability but never
// loses the session's view.
func (s *FileStore) Replace(state rain.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state.Clone()
	if err := s.write(s.state); err != nil {
		return fmt.Errorf("write state snapshot: %w", err)
	}
	return nil
}

// load reads and validates the snapshot, falling back to defaults on
// any failure.
func (s *FileStore) load() rain.AppState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: could not read state file %s: %v; starting fresh", s.path, err)
		}
		return s.defaults.Clone()
	}

	var state rain.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("WARN: state file %s is not valid JSON: %v; starting fresh", s.path, err)
		return s.defaults.Clone()
	}

	if err := validate(state); err != nil {
		log.Printf("WARN: state file %s has an invalid shape: %v; starting fresh", s.path, err)
		return s.defaults.Clone()
	}

	if state.Gauges == nil {
		state.Gauges = []rain.Gauge{}
	}
	if state.Measurements == nil {
		state.Measurements = []rain.Measurement{}
	}
	return state
}

// write serializes the snapshot to a temp file and renames it over the
// state file so a crash mid-write never leaves a torn snapshot.
func (s *FileStore) write(state rain.AppState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// validate checks the structural invariants of a parsed snapshot: valid
// season bounds, non-empty IDs, parseable measurement dates, and
// non-negative amounts. A parsed-but-unchecked structure is never
// trusted.
func validate(state rain.AppState) error {
	if _, err := rain.ParseDate(state.SelectedSeasonStart); err != nil {
		return fmt.Errorf("season start: %w", err)
	}
	if _, err := rain.ParseDate(state.SelectedSeasonEnd); err != nil {
		return fmt.Errorf("season end: %w", err)
	}

	seen := make(map[string]bool, len(state.Gauges))
	for i, g := range state.Gauges {
		if g.ID == "" {
			return fmt.Errorf("gauge %d: empty id", i)
		}
		if seen[g.ID] {
			return fmt.Errorf("gauge %d: duplicate id %s", i, g.ID)
		}
		seen[g.ID] = true
	}

	for i, m := range state.Measurements {
		if m.ID == "" {
			return fmt.Errorf("measurement %d: empty id", i)
		}
		if _, err := rain.ParseDate(m.Date); err != nil {
			return fmt.Errorf("measurement %d: %w", i, err)
		}
		if m.Amount < 0 {
			return fmt.Errorf("measurement %d: negative amount", i)
		}
	}
	return nil
}

// emptied normalizes a defaults value so fallbacks always carry
// non-nil, empty collections.
func emptied(defaults rain.AppState) rain.AppState {
	defaults.Gauges = []rain.Gauge{}
	defaults.Measurements = []rain.Measurement{}
	return defaults
}
