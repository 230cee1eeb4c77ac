package fsstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
	"github.com/custodia-labs/stockmirror/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

const snapshotFile = "snapshot.json"

// SnapshotStore keeps the fingerprint snapshot in a single JSON file.
type SnapshotStore struct {
	dir    string
	logger *slog.Logger
}

// NewSnapshotStore creates a file-backed snapshot store rooted at dir.
func NewSnapshotStore(dir string, logger *slog.Logger) (*SnapshotStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	return &SnapshotStore{dir: dir, logger: logger}, nil
}

// Load returns the previous snapshot, or nil when none exists. A corrupt
// snapshot degrades to a first-run diff rather than failing the sync.
func (s *SnapshotStore) Load(_ context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, snapshotFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("snapshot file corrupt, ignoring", "error", err)
		return nil, nil
	}
	return &snap, nil
}

// Save replaces the entire prior snapshot.
func (s *SnapshotStore) Save(_ context.Context, snap *domain.Snapshot) error {
	return writeJSON(filepath.Join(s.dir, snapshotFile), snap)
}
