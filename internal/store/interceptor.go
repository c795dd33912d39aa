package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hyphenhq/hyphen/internal/dbx"
	"github.com/hyphenhq/hyphen/internal/models"
	"github.com/hyphenhq/hyphen/internal/queue"
)

// Write carries one mutation through the interceptor chain. Interceptors
// may mutate Record (stamping) and Snapshot (serialization) but never the
// database row directly; the store persists after the chain succeeds.
type Write struct {
	Schema   *Schema
	Op       queue.Op
	EntityID string

	// Record is the post-patch record for creates and updates, and the
	// last known state for deletes.
	Record models.Record

	// Snapshot is the serialized record, filled once stamping is done.
	// Queue entries carry this immutable copy so dispatch never reads
	// live state.
	Snapshot json.RawMessage
}

// Interceptor is invoked by the store on every write, inside the write
// transaction. The chain replaces implicit per-collection lifecycle
// hooks: stamping and enqueueing are ordinary, independently testable
// functions.
type Interceptor func(ctx context.Context, tx dbx.DBTX, w *Write) error

// ValidationInterceptor rejects malformed records before anything is
// persisted or enqueued.
func ValidationInterceptor() Interceptor {
	return func(ctx context.Context, tx dbx.DBTX, w *Write) error {
		if w.Op == queue.OpDelete {
			return nil
		}
		return w.Record.Validate()
	}
}

// StampInterceptor maintains the syncable metadata contract: creates get
// a fresh id, version 1, equal timestamps and pending status; updates
// bump version and updatedAt together and reset the record to pending.
//
// UpdatedAt is forced strictly past its previous value even when the
// clock has not advanced, so version and updatedAt always move in
// lockstep.
func StampInterceptor(newID func() string, now func() time.Time) Interceptor {
	return func(ctx context.Context, tx dbx.DBTX, w *Write) error {
		if w.Op == queue.OpDelete {
			return nil
		}
		meta := w.Record.Meta()
		switch w.Op {
		case queue.OpCreate:
			if meta.ID == "" {
				meta.ID = newID()
			}
			t := now()
			meta.CreatedAt = t
			meta.UpdatedAt = t
			meta.Version = 1
			meta.SyncStatus = models.SyncStatusPending
		case queue.OpUpdate:
			t := now()
			if !t.After(meta.UpdatedAt) {
				t = meta.UpdatedAt.Add(time.Nanosecond)
			}
			meta.UpdatedAt = t
			meta.Version++
			meta.SyncStatus = models.SyncStatusPending
		}
		w.EntityID = meta.ID
		return nil
	}
}

// EnqueueInterceptor mirrors every write on a syncable collection into
// the sync queue, inside the same transaction as the write itself. This
// is a store-level hook: domain services cannot forget to enqueue.
func EnqueueInterceptor(q *queue.Queue) Interceptor {
	return func(ctx context.Context, tx dbx.DBTX, w *Write) error {
		if w.Snapshot == nil {
			data, err := json.Marshal(w.Record)
			if err != nil {
				return fmt.Errorf("failed to snapshot record: %w", err)
			}
			w.Snapshot = data
		}
		if !w.Schema.Syncable {
			return nil
		}
		return q.InsertTx(ctx, tx, &queue.Entry{
			EntityType: w.Schema.Name,
			EntityID:   w.EntityID,
			Op:         w.Op,
			Data:       w.Snapshot,
		})
	}
}
