// Package fsstate persists sync bookkeeping as JSON files under a state
// directory. Writes go through a temp file and rename so a crash mid-write
// never leaves a truncated file behind.
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
var _ driven.CheckpointStore = (*CheckpointStore)(nil)

const checkpointFile = "checkpoint.json"

// CheckpointStore keeps the fetch checkpoint in a single JSON file.
type CheckpointStore struct {
	dir    string
	logger *slog.Logger
}

// NewCheckpointStore creates a file-backed checkpoint store rooted at dir.
func NewCheckpointStore(dir string, logger *slog.Logger) (*CheckpointStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	return &CheckpointStore{dir: dir, logger: logger}, nil
}

// Save fully overwrites the prior checkpoint.
func (s *CheckpointStore) Save(_ context.Context, cp *domain.Checkpoint) error {
	return writeJSON(filepath.Join(s.dir, checkpointFile), cp)
}

// Load returns the stored checkpoint, or nil when none exists. A corrupt
// file is logged and treated as absent so a bad checkpoint can never block
// a fresh run.
func (s *CheckpointStore) Load(_ context.Context) (*domain.Checkpoint, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, checkpointFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	var cp domain.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		s.logger.Warn("checkpoint file corrupt, ignoring", "error", err)
		return nil, nil
	}
	return &cp, nil
}

// Clear removes the checkpoint file.
func (s *CheckpointStore) Clear(_ context.Context) error {
	err := os.Remove(filepath.Join(s.dir, checkpointFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear checkpoint: %w", err)
	}
	return nil
}

// writeJSON writes v atomically via a temp file in the same directory.
func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
