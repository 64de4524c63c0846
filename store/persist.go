package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// StorageKey namespaces the local snapshot, mirroring the key the web
// client used for its storage blob.
const StorageKey = "focus-flow-storage"

// FileStore persists the whole store state as a single JSON blob and
// restores it verbatim on load.
type FileStore struct {
	path string
}

// NewFileStore keeps the snapshot under dir as <StorageKey>.json.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, StorageKey+".json")}
}

// Save writes the snapshot atomically (write-then-rename) so a crash
// mid-write never corrupts the previous blob.
func (f *FileStore) Save(snap Snapshot) error {
	bs, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, bs, 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot back. A missing file yields ok=false and no
// error: first run.
func (f *FileStore) Load() (Snapshot, bool, error) {
	bs, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(bs, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, true, nil
}
