// Package reconcile drains the sync queue against an injected remote
// authority, advancing record sync statuses as outcomes arrive.
package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hyphenhq/hyphen/internal/logging"
	"github.com/hyphenhq/hyphen/internal/queue"
	"github.com/hyphenhq/hyphen/internal/store"
	"github.com/sethvargo/go-retry"
)

// AbandonedError is surfaced when an entry exceeds the retry ceiling.
// The mutation's data is not lost: it remains the record's in-store
// state, just no longer retried.
type AbandonedError struct {
	Entry *queue.Entry
	Cause string
}

func (e *AbandonedError) Error() string {
	return fmt.Sprintf("sync abandoned for %s/%s after %d retries: %s",
		e.Entry.EntityType, e.Entry.EntityID, e.Entry.RetryCount, e.Cause)
}

// Stats summarises one reconciliation pass.
type Stats struct {
	Dispatched int
	Acked      int
	Conflicts  int
	Failed     int
	Abandoned  int
}

// Reconciler owns queue draining. Only it advances records to synced or
// conflict; domain mutations never touch those transitions.
type Reconciler struct {
	store  *store.Store
	queue  *queue.Queue
	remote RemoteAuthority
	logger logging.Logger

	maxRetries       int
	dispatchBackoff  time.Duration
	dispatchAttempts uint64

	onAbandoned func(*AbandonedError)
}

// Option customises a Reconciler.
type Option func(*Reconciler)

// WithLogger overrides the default slog-backed logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Reconciler) { r.logger = l }
}

// WithMaxRetries sets the queue-level retry ceiling (default 5).
func WithMaxRetries(n int) Option {
	return func(r *Reconciler) { r.maxRetries = n }
}

// WithDispatchBackoff tunes the in-dispatch transient retry: base delay
// for the exponential backoff and how many quick attempts to make before
// a queue-level failure is counted.
func WithDispatchBackoff(base time.Duration, attempts uint64) Option {
	return func(r *Reconciler) {
		r.dispatchBackoff = base
		r.dispatchAttempts = attempts
	}
}

// WithAbandonedObserver registers a callback invoked whenever an entry
// is abandoned, for user-visible error reporting.
func WithAbandonedObserver(fn func(*AbandonedError)) Option {
	return func(r *Reconciler) { r.onAbandoned = fn }
}

// New wires a Reconciler over the store, its queue and a remote
// authority.
func New(st *store.Store, q *queue.Queue, remote RemoteAuthority, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:            st,
		queue:            q,
		remote:           remote,
		logger:           logging.NewSlogLogger(slog.Default()),
		maxRetries:       5,
		dispatchBackoff:  200 * time.Millisecond,
		dispatchAttempts: 2,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SyncOnce drains every currently eligible queue entry. Entries for the
// same entity dispatch in enqueue order. A cancelled context releases
// the in-flight entry back to queued.
func (r *Reconciler) SyncOnce(ctx context.Context) (Stats, error) {
	var stats Stats
	for {
		entry, err := r.queue.NextForDispatch(ctx)
		if err != nil {
			return stats, err
		}
		if entry == nil {
			return stats, nil
		}
		stats.Dispatched++

		result, err := r.push(ctx, entry)
		if err != nil {
			if ctx.Err() != nil {
				r.release(entry)
				return stats, ctx.Err()
			}
			stats.Failed++
			if err := r.countFailure(ctx, entry, err.Error(), &stats); err != nil {
				return stats, err
			}
			continue
		}

		switch result.Outcome {
		case OutcomeAccepted:
			if err := r.acknowledge(ctx, entry); err != nil {
				return stats, err
			}
			stats.Acked++
		case OutcomeConflict:
			// Removed, not retried: resolution is an explicit follow-up
			// action, never an automatic overwrite in either direction.
			_, getErr := r.store.Get(ctx, entry.EntityType, entry.EntityID)
			if errors.Is(getErr, store.ErrNotFound) {
				// The record was hard-deleted locally while this entry
				// was queued, so there is nothing to flag. Park the
				// entry instead of dropping it silently: the snapshot
				// stays inspectable and the observer fires.
				if err := r.abandon(ctx, entry, "remote version conflict for a locally deleted record"); err != nil {
					return stats, err
				}
				stats.Abandoned++
				continue
			}
			if getErr != nil {
				return stats, getErr
			}
			if err := r.store.MarkConflict(ctx, entry.EntityType, entry.EntityID); err != nil {
				return stats, err
			}
			if err := r.queue.Ack(ctx, entry.ID); err != nil {
				return stats, err
			}
			stats.Conflicts++
			r.logger.Warn(ctx, "remote reported version conflict",
				"entityType", entry.EntityType, "entityId", entry.EntityID,
				"remoteVersion", result.RemoteVersion)
		case OutcomeRejected:
			if err := r.abandon(ctx, entry, "rejected: "+result.Reason); err != nil {
				return stats, err
			}
			stats.Abandoned++
		default:
			return stats, fmt.Errorf("reconcile: unknown outcome %q", result.Outcome)
		}
	}
}

// push dispatches one entry, absorbing brief transport hiccups with an
// exponential backoff before the failure counts against the entry.
func (r *Reconciler) push(ctx context.Context, entry *queue.Entry) (PushResult, error) {
	var result PushResult
	b := retry.WithMaxRetries(r.dispatchAttempts, retry.NewExponential(r.dispatchBackoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		res, err := r.remote.Push(ctx, entry)
		if err != nil {
			return retry.RetryableError(err)
		}
		result = res
		return nil
	})
	if err != nil {
		return PushResult{}, err
	}
	return result, nil
}

func (r *Reconciler) acknowledge(ctx context.Context, entry *queue.Entry) error {
	if err := r.queue.Ack(ctx, entry.ID); err != nil {
		return err
	}
	// Guarded by the version at enqueue time: a newer pending mutation
	// keeps the record pending.
	return r.store.MarkSynced(ctx, entry.EntityType, entry.EntityID, snapshotVersion(entry.Data))
}

func (r *Reconciler) countFailure(ctx context.Context, entry *queue.Entry, cause string, stats *Stats) error {
	updated, err := r.queue.Fail(ctx, entry.ID, cause)
	if err != nil {
		return err
	}
	if updated.RetryCount < r.maxRetries {
		r.logger.Warn(ctx, "sync dispatch failed, will retry",
			"entityType", entry.EntityType, "entityId", entry.EntityID,
			"retryCount", updated.RetryCount, "cause", cause)
		return nil
	}
	stats.Failed--
	stats.Abandoned++
	return r.abandon(ctx, updated, cause)
}

func (r *Reconciler) abandon(ctx context.Context, entry *queue.Entry, cause string) error {
	if err := r.queue.Abandon(ctx, entry.ID, cause); err != nil {
		return err
	}
	abandoned := &AbandonedError{Entry: entry, Cause: cause}
	r.logger.Error(ctx, "sync abandoned",
		"entityType", entry.EntityType, "entityId", entry.EntityID, "cause", cause)
	if r.onAbandoned != nil {
		r.onAbandoned(abandoned)
	}
	return nil
}

// release returns a claimed entry to queued after a cancellation. Runs
// detached from the cancelled context; ResetDispatching at the next
// startup is the backstop if even this write is cut short.
func (r *Reconciler) release(entry *queue.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.queue.Release(ctx, entry.ID); err != nil {
		r.logger.Error(ctx, "failed to release queue entry", "id", entry.ID, "error", err)
	}
}

// Run is the scheduled reconciliation task: it resets entries stranded
// in dispatching by a previous shutdown, then drains the queue every
// interval until the context is cancelled.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) error {
	if _, err := r.queue.ResetDispatching(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats, err := r.SyncOnce(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Error(ctx, "reconciliation pass failed", "error", err)
			}
			if stats.Dispatched > 0 {
				r.logger.Info(ctx, "reconciliation pass finished",
					"dispatched", stats.Dispatched, "acked", stats.Acked,
					"conflicts", stats.Conflicts, "abandoned", stats.Abandoned)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func snapshotVersion(data json.RawMessage) int64 {
	var m struct {
		Version int64 `json:"version"`
	}
	_ = json.Unmarshal(data, &m)
	return m.Version
}
