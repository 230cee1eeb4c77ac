package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
	"github.com/custodia-labs/stockmirror/internal/core/ports/driven"
	"github.com/custodia-labs/stockmirror/internal/core/ports/driving"
)

// Verify interface compliance
var _ driving.SyncRunner = (*SyncEngine)(nil)

const runLockName = "sync-run"

// SyncEngine coordinates one sync run end to end:
//  1. Acquire the run lock (overlapping invocations are refused)
//  2. Load SyncState and choose the mode (delta or full)
//  3. Fetch from the upstream catalog
//  4. Upsert into the mirror in batches
//  5. Full mode only: evict stale rows, rebuild the fingerprint snapshot,
//     diff against the previous one, append to the audit log
//  6. Save the new SyncState, exactly once, at the end
type SyncEngine struct {
	fetcher    driven.CatalogFetcher
	items      driven.ItemStore
	syncStore  driven.SyncStateStore
	checkpoint driven.CheckpointStore
	snapshots  driven.SnapshotStore
	audit      driven.AuditLog
	lock       driven.DistributedLock
	logger     *slog.Logger

	fullInterval   time.Duration
	lockTTL        time.Duration
	auditRetention int

	// now is swappable for tests.
	now func() time.Time
}

// SyncEngineConfig holds dependencies for SyncEngine.
type SyncEngineConfig struct {
	Fetcher    driven.CatalogFetcher
	Items      driven.ItemStore
	SyncStore  driven.SyncStateStore
	Checkpoint driven.CheckpointStore
	Snapshots  driven.SnapshotStore
	Audit      driven.AuditLog
	Lock       driven.DistributedLock // Optional: nil disables overlap protection
	Logger     *slog.Logger

	// FullInterval is how stale the last full reconciliation may get before
	// a run is promoted to full (default: 24h).
	FullInterval time.Duration

	// LockTTL bounds how long a crashed run can block the next one
	// (default: 30m).
	LockTTL time.Duration

	// AuditRetention is how many diff documents to keep (default: 30).
	AuditRetention int
}

// NewSyncEngine creates a new sync engine.
func NewSyncEngine(cfg SyncEngineConfig) *SyncEngine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fullInterval := cfg.FullInterval
	if fullInterval == 0 {
		fullInterval = 24 * time.Hour
	}

	lockTTL := cfg.LockTTL
	if lockTTL == 0 {
		lockTTL = 30 * time.Minute
	}

	retention := cfg.AuditRetention
	if retention == 0 {
		retention = 30
	}

	return &SyncEngine{
		fetcher:        cfg.Fetcher,
		items:          cfg.Items,
		syncStore:      cfg.SyncStore,
		checkpoint:     cfg.Checkpoint,
		snapshots:      cfg.Snapshots,
		audit:          cfg.Audit,
		lock:           cfg.Lock,
		logger:         logger,
		fullInterval:   fullInterval,
		lockTTL:        lockTTL,
		auditRetention: retention,
		now:            time.Now,
	}
}

// Run executes one sync invocation and returns its structured report.
func (e *SyncEngine) Run(ctx context.Context, opts driving.RunOptions) (*domain.SyncReport, error) {
	if e.lock != nil {
		acquired, err := e.lock.Acquire(ctx, runLockName, e.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if !acquired {
			return nil, domain.ErrSyncInProgress
		}
		defer func() {
			if err := e.lock.Release(ctx, runLockName); err != nil {
				e.logger.Warn("failed to release run lock", "error", err)
			}
		}()
		stopHeartbeat := e.keepLockAlive(ctx)
		defer stopHeartbeat()
	}

	started := e.now()

	state, err := e.syncStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sync state: %w", err)
	}

	mode := state.ChooseMode(started, e.fullInterval, opts.ForceFull)
	e.logger.Info("starting sync", "mode", mode, "force_full", opts.ForceFull)

	var report *domain.SyncReport
	switch mode {
	case domain.SyncModeDelta:
		report, err = e.runDelta(ctx, state, started)
	default:
		report, err = e.runFull(ctx, state, started, opts.Resume)
	}
	if err != nil {
		e.logger.Error("sync failed", "mode", mode, "error", err)
		return report, err
	}

	report.Duration = e.now().Sub(started).Seconds()
	e.logger.Info("sync completed",
		"mode", report.Mode,
		"items", report.ItemCount,
		"failed_pages", report.FailedPages,
		"removed", report.Removed,
		"duration_seconds", report.Duration,
	)
	return report, nil
}

// keepLockAlive extends the run lock at half its TTL for as long as the run
// is in flight, so a full reconciliation longer than the TTL does not lose
// the lock to the next scheduled invocation. The returned func stops the
// heartbeat and waits for it to exit.
func (e *SyncEngine) keepLockAlive(ctx context.Context) func() {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(e.lockTTL / 2)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := e.lock.Extend(ctx, runLockName, e.lockTTL); err != nil {
					e.logger.Warn("failed to extend run lock", "error", err)
				}
			}
		}
	}()
	return func() {
		close(stop)
		<-done
	}
}

// runDelta fetches only items updated after the watermark and upserts them.
// A zero-item delta still advances the watermark: the absence of changes is
// itself meaningful state.
func (e *SyncEngine) runDelta(ctx context.Context, state *domain.SyncState, started time.Time) (*domain.SyncReport, error) {
	report := &domain.SyncReport{Mode: domain.SyncModeDelta, StartedAt: started}

	result, err := e.fetcher.FetchAll(ctx, driven.FetchSpec{
		Statuses:     domain.SyncedStatuses,
		UpdatedAfter: state.LastDeltaSyncAt,
	})
	if err != nil {
		return report, fmt.Errorf("delta fetch: %w", err)
	}
	items := domain.DedupeItems(result.Items)
	report.FailedPages = result.FailedPages
	report.ItemCount = len(items)

	if len(items) > 0 {
		if err := e.items.UpsertBatch(ctx, items, started); err != nil {
			return report, fmt.Errorf("delta upsert: %w", err)
		}
	}

	state.LastDeltaSyncAt = &started
	state.LastDeltaItemCount = len(items)
	if err := e.syncStore.Save(ctx, state); err != nil {
		return report, fmt.Errorf("save sync state: %w", err)
	}
	return report, nil
}

// runFull fetches the entire filtered catalog, upserts it, evicts rows the
// fetch did not touch, and refreshes the change-detection snapshot.
func (e *SyncEngine) runFull(ctx context.Context, state *domain.SyncState, started time.Time, resume bool) (*domain.SyncReport, error) {
	report := &domain.SyncReport{Mode: domain.SyncModeFull, StartedAt: started}

	result, err := e.fetcher.FetchAll(ctx, driven.FetchSpec{
		Statuses:   domain.SyncedStatuses,
		Resume:     resume,
		Checkpoint: true,
	})
	if err != nil {
		return report, fmt.Errorf("full fetch: %w", err)
	}
	// An item whose status changed between filters, or a row re-served by
	// pagination drift, appears twice in the result; keep the last copy.
	items := domain.DedupeItems(result.Items)
	report.FailedPages = result.FailedPages
	report.ItemCount = len(items)

	// Guard: an empty catalog response is indistinguishable from an upstream
	// outage, so abort before eviction can wipe the mirror. The checkpoint is
	// left in place and no timestamps advance.
	if len(items) == 0 {
		return report, domain.ErrEmptyCatalog
	}

	if err := e.items.UpsertBatch(ctx, items, started); err != nil {
		return report, fmt.Errorf("full upsert: %w", err)
	}

	// Rows not touched by this fetch carry an older last-synced timestamp
	// and no longer exist upstream.
	removed, err := e.items.EvictStaleBefore(ctx, started)
	if err != nil {
		return report, fmt.Errorf("evict stale rows: %w", err)
	}
	report.Removed = removed

	if err := e.checkpoint.Clear(ctx); err != nil {
		e.logger.Warn("failed to clear checkpoint", "error", err)
	}

	report.Diff = e.recordDiff(ctx, items, started)

	state.LastDeltaSyncAt = &started
	state.LastFullReconciliationAt = &started
	state.LastFullItemCount = len(items)
	state.LastFullRemovedCount = removed
	if err := e.syncStore.Save(ctx, state); err != nil {
		return report, fmt.Errorf("save sync state: %w", err)
	}
	return report, nil
}

// recordDiff rebuilds the fingerprint snapshot from a complete item set,
// diffs it against the previous one, and appends the result to the audit
// trail. Audit failures are logged, not fatal: the mirror itself is already
// consistent at this point.
func (e *SyncEngine) recordDiff(ctx context.Context, items []domain.InventoryItem, now time.Time) *domain.DiffSummary {
	previous, err := e.snapshots.Load(ctx)
	if err != nil {
		e.logger.Warn("failed to load previous fingerprint snapshot", "error", err)
		previous = nil
	}

	current := domain.NewSnapshot(items, now)
	diff := domain.ComputeDiff(current, previous, now)

	if err := e.audit.Append(ctx, diff); err != nil {
		e.logger.Warn("failed to append audit entry", "error", err)
	} else if err := e.audit.Prune(ctx, e.auditRetention); err != nil {
		e.logger.Warn("failed to prune audit log", "error", err)
	}

	if err := e.snapshots.Save(ctx, current); err != nil {
		e.logger.Warn("failed to save fingerprint snapshot", "error", err)
	}

	e.logger.Info("reconciliation diff",
		"added", diff.Summary.AddedCount,
		"removed", diff.Summary.RemovedCount,
		"changed", diff.Summary.ChangedCount,
		"unchanged", diff.Summary.UnchangedCount,
	)
	return &diff.Summary
}

// IsFatal reports whether a run error should fail the whole invocation
// (non-zero exit) rather than be retried on the next schedule tick.
func IsFatal(err error) bool {
	return errors.Is(err, domain.ErrMissingCredentials) || errors.Is(err, domain.ErrEmptyCatalog)
}
