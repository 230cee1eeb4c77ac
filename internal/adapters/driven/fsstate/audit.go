package fsstate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
	"github.com/custodia-labs/stockmirror/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.AuditLog = (*AuditLog)(nil)

const (
	auditSubdir     = "audit"
	auditTimeFormat = "20060102T150405.000000000Z"
)

// AuditLog writes each diff document to its own timestamped JSON file under
// <dir>/audit/. Files sort lexically in chronological order, which is what
// Prune relies on.
type AuditLog struct {
	dir string
}

// NewAuditLog creates a file-backed audit log rooted at dir.
func NewAuditLog(dir string) (*AuditLog, error) {
	auditDir := filepath.Join(dir, auditSubdir)
	if err := os.MkdirAll(auditDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit dir: %w", err)
	}
	return &AuditLog{dir: auditDir}, nil
}

// Append writes one diff document named by its computation time.
func (a *AuditLog) Append(_ context.Context, diff *domain.Diff) error {
	name := fmt.Sprintf("diff-%s.json", diff.ComputedAt.UTC().Format(auditTimeFormat))
	return writeJSON(filepath.Join(a.dir, name), diff)
}

// Prune keeps only the most recent keep entries. keep <= 0 removes nothing.
func (a *AuditLog) Prune(_ context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	names, err := a.entryNames()
	if err != nil {
		return err
	}
	if len(names) <= keep {
		return nil
	}
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(a.dir, name)); err != nil {
			return fmt.Errorf("failed to prune audit entry %s: %w", name, err)
		}
	}
	return nil
}

// entryNames lists audit files sorted oldest first.
func (a *AuditLog) entryNames() ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "diff-") || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
