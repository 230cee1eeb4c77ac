package driven

import (
	"context"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

// AuditLog is the append-only trail of diff documents.
type AuditLog interface {
	// Append writes one timestamped diff document.
	Append(ctx context.Context, diff *domain.Diff) error

	// Prune keeps only the most recent keep entries.
	Prune(ctx context.Context, keep int) error
}
