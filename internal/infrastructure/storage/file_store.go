package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

// FileStore writes one JSON document per run under a directory. It is the
// default snapshot backend when no database DSN is configured.
type FileStore struct {
	dir string
}

var _ ports.SnapshotStore = (*FileStore)(nil)

// NewFileStore builds a file-backed snapshot store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Save writes the snapshot to <dir>/<run_id>.json, creating the directory on
// first use.
func (s *FileStore) Save(_ context.Context, snapshot domain.RunSnapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	path := filepath.Join(s.dir, snapshot.RunID+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot back by run id.
func (s *FileStore) Load(_ context.Context, runID string) (domain.RunSnapshot, error) {
	payload, err := os.ReadFile(filepath.Join(s.dir, runID+".json"))
	if err != nil {
		return domain.RunSnapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot domain.RunSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return domain.RunSnapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snapshot, nil
}
