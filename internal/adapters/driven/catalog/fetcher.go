package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
	"github.com/custodia-labs/stockmirror/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CatalogFetcher = (*Fetcher)(nil)

// pageClient is the slice of Client the fetcher needs; tests substitute it.
type pageClient interface {
	FetchPage(ctx context.Context, status domain.ItemStatus, updatedAfter *time.Time, page int) (*Page, error)
	PageDelay() time.Duration
}

// Fetcher walks every page of every requested status filter, sequentially,
// accumulating mapped items. Pages that exhaust their retry budget are
// counted and skipped; one bad page never aborts the fetch.
type Fetcher struct {
	client      pageClient
	checkpoints driven.CheckpointStore
	logger      *slog.Logger
	now         func() time.Time
}

// NewFetcher creates a paginated fetcher. checkpoints may be nil when the
// caller never checkpoints (delta-only use).
func NewFetcher(client pageClient, checkpoints driven.CheckpointStore, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:      client,
		checkpoints: checkpoints,
		logger:      logger,
		now:         time.Now,
	}
}

// FetchAll retrieves all pages for all filters in spec.
func (f *Fetcher) FetchAll(ctx context.Context, spec driven.FetchSpec) (*driven.FetchResult, error) {
	statuses := spec.Statuses
	if len(statuses) == 0 {
		statuses = domain.SyncedStatuses
	}

	var items []domain.InventoryItem
	failedPages := 0

	// Resume state: which filter to start at, which page within it, and the
	// page count the checkpoint recorded for that filter.
	startFilter := 0
	resumePage := 0
	resumePages := 0

	if spec.Resume && f.checkpoints != nil {
		cp, err := f.checkpoints.Load(ctx)
		if err != nil {
			f.logger.Warn("failed to load checkpoint, starting cold", "error", err)
		} else if cp != nil {
			for i, status := range statuses {
				if status == cp.Filter {
					startFilter = i
					resumePage = cp.LastPage + 1
					resumePages = cp.TotalPages
					items = cp.Items
					break
				}
			}
			if resumePage > 0 {
				f.logger.Info("resuming fetch from checkpoint",
					"filter", cp.Filter,
					"page", resumePage,
					"accumulated_items", len(cp.Items),
				)
			}
		}
	}

	for fi := startFilter; fi < len(statuses); fi++ {
		status := statuses[fi]

		page := 1
		totalPages := 0
		if fi == startFilter && resumePage > 0 {
			page = resumePage
			totalPages = resumePages
		}

		for totalPages == 0 || page <= totalPages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			pg, err := f.client.FetchPage(ctx, status, spec.UpdatedAfter, page)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				failedPages++
				f.logger.Warn("page failed, skipping", "status", status, "page", page, "error", err)
				if totalPages == 0 {
					// First page failed: page count unknown, filter cannot
					// continue.
					break
				}
				page++
				continue
			}

			if totalPages == 0 {
				if len(pg.Data) == 0 {
					f.logger.Info("no data for filter, skipping", "status", status)
					break
				}
				totalPages = pg.Pages
				if totalPages < 1 {
					totalPages = 1
				}
			}

			for _, raw := range pg.Data {
				item, err := ItemFromPayload(raw)
				if err != nil {
					f.logger.Warn("skipping unmappable record", "status", status, "page", page, "error", err)
					continue
				}
				items = append(items, item)
			}

			if spec.Checkpoint && f.checkpoints != nil {
				cp := &domain.Checkpoint{
					Items:      items,
					Filter:     status,
					LastPage:   page,
					TotalPages: totalPages,
					SavedAt:    f.now(),
				}
				if err := f.checkpoints.Save(ctx, cp); err != nil {
					f.logger.Warn("failed to save checkpoint", "error", err)
				}
			}

			page++

			// Rate-limit pacing between pages. A page that already absorbed
			// a 429 backoff was paced by that wait instead.
			if page <= totalPages && !pg.Throttled {
				if err := sleep(ctx, f.client.PageDelay()); err != nil {
					return nil, err
				}
			}
		}
	}

	return &driven.FetchResult{Items: items, FailedPages: failedPages}, nil
}
