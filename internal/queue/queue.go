// Package queue implements the local sync queue: an append-only log of
// pending mutations drained by the reconciler.
//
// Entries for the same entity dispatch in enqueue order; entries for
// different entities carry no mutual ordering guarantee.
package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyphenhq/hyphen/internal/dbx"
)

// Op is the mutation kind captured by a queue entry.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// State is the queue entry lifecycle position.
//
// queued -> dispatching -> removed on ack, back to queued on failure,
// abandoned once the reconciler's retry ceiling is exceeded.
type State string

const (
	StateQueued      State = "queued"
	StateDispatching State = "dispatching"
	StateAbandoned   State = "abandoned"
)

// Entry is a single pending mutation. Data is an immutable snapshot of
// the record taken at enqueue time, so dispatch never reads live state.
type Entry struct {
	ID         string
	EntityType string
	EntityID   string
	Op         Op
	Data       json.RawMessage
	Timestamp  time.Time
	RetryCount int
	State      State
	LastError  string
}

// Queue is a SQLite-backed sync queue sharing the local store's database.
type Queue struct {
	db    *sql.DB
	newID func() string
	now   func() time.Time
}

// Option customises a Queue.
type Option func(*Queue)

// WithIDGenerator overrides the entry id generator (uuid by default).
func WithIDGenerator(gen func() string) Option {
	return func(q *Queue) { q.newID = gen }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// New returns a Queue bound to db. The sync_queue table must exist
// (created by the store migrations).
func New(db *sql.DB, opts ...Option) *Queue {
	q := &Queue{db: db, newID: uuid.NewString, now: time.Now}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

const entryColumns = `id, entity_type, entity_id, op, data, ts, retry_count, state, last_error`

// InsertTx appends an entry inside an existing transaction. The store's
// enqueue interceptor uses this so the record write and its queue entry
// commit together. Missing id and timestamp are assigned.
func (q *Queue) InsertTx(ctx context.Context, tx dbx.DBTX, e *Entry) error {
	if e.ID == "" {
		e.ID = q.newID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = q.now()
	}
	if e.State == "" {
		e.State = StateQueued
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO sync_queue (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.EntityType, e.EntityID, e.Op, string(e.Data),
		e.Timestamp.UnixNano(), e.RetryCount, e.State, e.LastError)
	if err != nil {
		return fmt.Errorf("failed to insert queue entry: %w", err)
	}
	return nil
}

func scanEntry(row interface{ Scan(dest ...any) error }) (*Entry, error) {
	e := &Entry{}
	var data string
	var ts int64
	if err := row.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Op, &data,
		&ts, &e.RetryCount, &e.State, &e.LastError); err != nil {
		return nil, err
	}
	e.Data = json.RawMessage(data)
	e.Timestamp = time.Unix(0, ts)
	return e, nil
}

// NextForDispatch atomically claims the oldest queued entry whose entity
// has nothing earlier in flight, moving it to dispatching. Returns nil
// when no entry is eligible.
func (q *Queue) NextForDispatch(ctx context.Context) (*Entry, error) {
	var claimed *Entry
	err := dbx.WithTx(ctx, q.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		row := tx.QueryRowContext(ctx, `
			SELECT `+entryColumns+` FROM sync_queue q
			WHERE q.state = 'queued' AND NOT EXISTS (
				SELECT 1 FROM sync_queue p
				WHERE p.entity_id = q.entity_id
				  AND p.rowid < q.rowid
				  AND p.state IN ('queued', 'dispatching')
			)
			ORDER BY q.rowid
			LIMIT 1
		`)
		e, err := scanEntry(row)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to select queue entry: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE sync_queue SET state = 'dispatching' WHERE id = ?`, e.ID); err != nil {
			return fmt.Errorf("failed to claim queue entry: %w", err)
		}
		e.State = StateDispatching
		claimed = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// Ack removes a successfully dispatched entry.
func (q *Queue) Ack(ctx context.Context, id string) error {
	if _, err := q.db.ExecContext(ctx,
		`DELETE FROM sync_queue WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to ack queue entry: %w", err)
	}
	return nil
}

// Fail returns a dispatching entry to queued with its retry count
// incremented and the cause recorded. The updated entry is returned so
// the caller can apply its retry ceiling.
func (q *Queue) Fail(ctx context.Context, id string, cause string) (*Entry, error) {
	_, err := q.db.ExecContext(ctx, `
		UPDATE sync_queue
		SET state = 'queued', retry_count = retry_count + 1, last_error = ?
		WHERE id = ?
	`, cause, id)
	if err != nil {
		return nil, fmt.Errorf("failed to mark queue entry failed: %w", err)
	}
	return q.getByID(ctx, id)
}

// Abandon parks an entry past the retry ceiling. Abandoned entries stay
// visible through Abandoned until dismissed.
func (q *Queue) Abandon(ctx context.Context, id string, cause string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE sync_queue SET state = 'abandoned', last_error = ? WHERE id = ?
	`, cause, id)
	if err != nil {
		return fmt.Errorf("failed to abandon queue entry: %w", err)
	}
	return nil
}

// Release returns an in-flight entry to queued without counting a retry.
// Used when a dispatch is cancelled rather than failed.
func (q *Queue) Release(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE sync_queue SET state = 'queued' WHERE id = ? AND state = 'dispatching'
	`, id)
	if err != nil {
		return fmt.Errorf("failed to release queue entry: %w", err)
	}
	return nil
}

// ResetDispatching returns every dispatching entry to queued. Called at
// startup so entries in flight during a crash or shutdown are neither
// lost nor double-applied.
func (q *Queue) ResetDispatching(ctx context.Context) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE sync_queue SET state = 'queued' WHERE state = 'dispatching'`)
	if err != nil {
		return 0, fmt.Errorf("failed to reset dispatching entries: %w", err)
	}
	return res.RowsAffected()
}

// Pending lists queued entries in enqueue order.
func (q *Queue) Pending(ctx context.Context) ([]*Entry, error) {
	return q.list(ctx, StateQueued)
}

// Abandoned lists entries that exceeded the retry ceiling, oldest first.
func (q *Queue) Abandoned(ctx context.Context) ([]*Entry, error) {
	return q.list(ctx, StateAbandoned)
}

// Dismiss removes an abandoned entry after it has been surfaced to the
// user. The underlying mutation stays in the record's in-store state.
func (q *Queue) Dismiss(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM sync_queue WHERE id = ? AND state = 'abandoned'`, id)
	if err != nil {
		return fmt.Errorf("failed to dismiss queue entry: %w", err)
	}
	return nil
}

func (q *Queue) list(ctx context.Context, state State) ([]*Entry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM sync_queue WHERE state = ? ORDER BY rowid
	`, state)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue entries: %w", err)
	}
	defer rows.Close()

	var result []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (q *Queue) getByID(ctx context.Context, id string) (*Entry, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM sync_queue WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue entry: %w", err)
	}
	return e, nil
}
