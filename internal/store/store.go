// Package store implements the local, schema-indexed object store every
// domain collection lives in. It owns the persisted state: every read
// returns a detached copy and every write runs through an explicit
// interceptor chain (validate, stamp sync metadata, mirror into the sync
// queue) inside a single transaction.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hyphenhq/hyphen/internal/dbx"
	"github.com/hyphenhq/hyphen/internal/logging"
	"github.com/hyphenhq/hyphen/internal/models"
	"github.com/hyphenhq/hyphen/internal/queue"
)

// ErrNotInConflict is returned when resolving a record that is not in
// conflict. See errors.go for the rest of the taxonomy.
var ErrNotInConflict = errors.New("store: record is not in conflict")

// Store is the single owner of persisted collections.
type Store struct {
	db      *sql.DB
	queue   *queue.Queue
	schemas map[string]*Schema
	chain   []Interceptor
	enqueue Interceptor
	logger  logging.Logger
	newID   func() string
	now     func() time.Time
	extra   []Interceptor
}

// Option customises a Store.
type Option func(*Store)

// WithIDGenerator overrides the record id generator (uuid by default).
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithClock overrides the time source used for stamping.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger overrides the default slog-backed logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithInterceptor appends a custom interceptor between stamping and
// enqueueing.
func WithInterceptor(i Interceptor) Option {
	return func(s *Store) { s.extra = append(s.extra, i) }
}

// New builds a Store over an open database (see Open) and the sync
// queue its syncable collections feed.
func New(db *sql.DB, q *queue.Queue, opts ...Option) *Store {
	s := &Store{
		db:      db,
		queue:   q,
		schemas: make(map[string]*Schema),
		newID:   uuid.NewString,
		now:     time.Now,
		logger:  logging.NewSlogLogger(slog.Default()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.chain = append(s.chain, ValidationInterceptor(), StampInterceptor(s.newID, s.now))
	s.chain = append(s.chain, s.extra...)
	s.enqueue = EnqueueInterceptor(q)
	return s
}

// Register declares a collection. Collections must be registered before
// first use.
func (s *Store) Register(sc Schema) error {
	if sc.Name == "" {
		return fmt.Errorf("store: schema name is required")
	}
	if sc.New == nil {
		return fmt.Errorf("store: schema %q needs a record factory", sc.Name)
	}
	if _, ok := s.schemas[sc.Name]; ok {
		return fmt.Errorf("store: collection %q already registered", sc.Name)
	}
	s.schemas[sc.Name] = &sc
	return nil
}

func (s *Store) schema(collection string) (*Schema, error) {
	sc, ok := s.schemas[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	return sc, nil
}

// Create inserts a new record, stamping its sync metadata. The record's
// id may be pre-assigned; colliding ids fail with ErrDuplicateKey.
func (s *Store) Create(ctx context.Context, collection string, rec models.Record) error {
	sc, err := s.schema(collection)
	if err != nil {
		return err
	}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.createTx(ctx, tx, sc, rec)
	})
	if err != nil {
		return err
	}
	s.logger.Debug(ctx, "record created", "collection", collection, "id", rec.Meta().ID)
	return nil
}

func (s *Store) createTx(ctx context.Context, tx dbx.DBTX, sc *Schema, rec models.Record) error {
	w := &Write{Schema: sc, Op: queue.OpCreate, Record: rec}
	if err := s.prepare(ctx, tx, w); err != nil {
		return err
	}
	// The duplicate check runs before the enqueue stage: a rejected
	// create must leave no queue entry behind, even when the surrounding
	// transaction goes on to commit other writes (BulkCreate).
	exists, err := existsTx(ctx, tx, sc.Name, w.EntityID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateKey, sc.Name, w.EntityID)
	}
	if err := s.enqueue(ctx, tx, w); err != nil {
		return err
	}
	return persistTx(ctx, tx, sc, w.Record, w.Snapshot)
}

// prepare invokes the validate, stamp and custom interceptors in order,
// stopping on the first error.
func (s *Store) prepare(ctx context.Context, tx dbx.DBTX, w *Write) error {
	for _, i := range s.chain {
		if err := i(ctx, tx, w); err != nil {
			return err
		}
	}
	return nil
}

// runChain is prepare plus the enqueue stage, for writes whose target
// row is already known to be valid. The enqueue stage is last so nothing
// reaches the queue unless every earlier stage accepted the write.
func (s *Store) runChain(ctx context.Context, tx dbx.DBTX, w *Write) error {
	if err := s.prepare(ctx, tx, w); err != nil {
		return err
	}
	return s.enqueue(ctx, tx, w)
}

// Get returns a detached copy of a record.
func (s *Store) Get(ctx context.Context, collection, id string) (models.Record, error) {
	sc, err := s.schema(collection)
	if err != nil {
		return nil, err
	}
	return getTx(ctx, s.db, sc, id)
}

func getTx(ctx context.Context, db dbx.DBTX, sc *Schema, id string) (models.Record, error) {
	var data string
	err := db.QueryRowContext(ctx,
		`SELECT data FROM records WHERE collection = ? AND id = ?`, sc.Name, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, sc.Name, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return decodeRecord(sc, []byte(data))
}

func decodeRecord(sc *Schema, data []byte) (models.Record, error) {
	rec := sc.New()
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("failed to decode %s record: %w", sc.Name, err)
	}
	return rec, nil
}

// Update applies a validated patch to an existing record, bumping its
// version and re-queueing it for sync. Records in conflict refuse
// mutation until resolved.
func (s *Store) Update(ctx context.Context, collection, id string, patch models.Patch) (models.Record, error) {
	sc, err := s.schema(collection)
	if err != nil {
		return nil, err
	}
	var updated models.Record
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rec, err := getTx(ctx, tx, sc, id)
		if err != nil {
			return err
		}
		if rec.Meta().SyncStatus == models.SyncStatusConflict {
			return fmt.Errorf("%w: %s/%s", ErrConflictUnresolved, collection, id)
		}
		if err := patch.Apply(rec); err != nil {
			return err
		}
		w := &Write{Schema: sc, Op: queue.OpUpdate, Record: rec, EntityID: id}
		if err := s.runChain(ctx, tx, w); err != nil {
			return err
		}
		if err := persistTx(ctx, tx, sc, w.Record, w.Snapshot); err != nil {
			return err
		}
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "record updated", "collection", collection, "id", id,
		"version", updated.Meta().Version)
	return updated, nil
}

// Delete removes a record. Deleting an absent id is a successful no-op;
// deleting a conflicted record is refused until the conflict is
// resolved.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	sc, err := s.schema(collection)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rec, err := getTx(ctx, tx, sc, id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if rec.Meta().SyncStatus == models.SyncStatusConflict {
			return fmt.Errorf("%w: %s/%s", ErrConflictUnresolved, collection, id)
		}
		w := &Write{Schema: sc, Op: queue.OpDelete, Record: rec, EntityID: id}
		if err := s.runChain(ctx, tx, w); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM records WHERE collection = ? AND id = ?`, sc.Name, id); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}
		return nil
	})
}

// BulkResult reports the outcome of one record in a BulkCreate batch.
type BulkResult struct {
	ID  string
	Err error
}

// BulkCreate inserts a batch in one transaction. Records that fail
// validation or collide are skipped and reported in the result slice;
// the rest commit. No silent partial commit: one result per input, in
// input order.
func (s *Store) BulkCreate(ctx context.Context, collection string, recs []models.Record) ([]BulkResult, error) {
	sc, err := s.schema(collection)
	if err != nil {
		return nil, err
	}
	results := make([]BulkResult, len(recs))
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for i, rec := range recs {
			if createErr := s.createTx(ctx, tx, sc, rec); createErr != nil {
				results[i] = BulkResult{ID: rec.Meta().ID, Err: createErr}
				continue
			}
			results[i] = BulkResult{ID: rec.Meta().ID}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// MarkSynced advances a record to synced, provided its version still
// matches the version that was acknowledged. A newer pending mutation
// supersedes the acknowledgement and the record stays pending.
func (s *Store) MarkSynced(ctx context.Context, collection, id string, version int64) error {
	sc, err := s.schema(collection)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rec, err := getTx(ctx, tx, sc, id)
		if errors.Is(err, ErrNotFound) {
			// Deleted locally after the mutation was enqueued.
			return nil
		}
		if err != nil {
			return err
		}
		meta := rec.Meta()
		if meta.Version != version || meta.SyncStatus != models.SyncStatusPending {
			return nil
		}
		meta.SyncStatus = models.SyncStatusSynced
		return persistTx(ctx, tx, sc, rec, nil)
	})
}

// MarkConflict flags a record after the remote authority rejected its
// version. Missing records are a no-op.
func (s *Store) MarkConflict(ctx context.Context, collection, id string) error {
	sc, err := s.schema(collection)
	if err != nil {
		return err
	}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rec, err := getTx(ctx, tx, sc, id)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		rec.Meta().SyncStatus = models.SyncStatusConflict
		return persistTx(ctx, tx, sc, rec, nil)
	})
	if err != nil {
		return err
	}
	s.logger.Warn(ctx, "record in conflict", "collection", collection, "id", id)
	return nil
}

// ResolveConflictKeepLocal re-asserts the local copy: the record goes
// back to pending with a bumped version and is re-queued for sync.
func (s *Store) ResolveConflictKeepLocal(ctx context.Context, collection, id string) (models.Record, error) {
	sc, err := s.schema(collection)
	if err != nil {
		return nil, err
	}
	var resolved models.Record
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rec, err := getTx(ctx, tx, sc, id)
		if err != nil {
			return err
		}
		if rec.Meta().SyncStatus != models.SyncStatusConflict {
			return fmt.Errorf("%w: %s/%s", ErrNotInConflict, collection, id)
		}
		w := &Write{Schema: sc, Op: queue.OpUpdate, Record: rec, EntityID: id}
		if err := s.runChain(ctx, tx, w); err != nil {
			return err
		}
		if err := persistTx(ctx, tx, sc, w.Record, w.Snapshot); err != nil {
			return err
		}
		resolved = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// ResolveConflictAcceptRemote replaces the local copy with the remote
// authority's data at its version. An empty remote snapshot means the
// record was deleted remotely and is removed locally. No queue entry is
// produced: this is the reconciliation path, not a local mutation.
func (s *Store) ResolveConflictAcceptRemote(ctx context.Context, collection, id string, remoteData json.RawMessage, remoteVersion int64) (models.Record, error) {
	sc, err := s.schema(collection)
	if err != nil {
		return nil, err
	}
	var resolved models.Record
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		local, err := getTx(ctx, tx, sc, id)
		if err != nil {
			return err
		}
		if local.Meta().SyncStatus != models.SyncStatusConflict {
			return fmt.Errorf("%w: %s/%s", ErrNotInConflict, collection, id)
		}
		if len(remoteData) == 0 {
			_, err := tx.ExecContext(ctx,
				`DELETE FROM records WHERE collection = ? AND id = ?`, sc.Name, id)
			return err
		}
		rec, err := decodeRecord(sc, remoteData)
		if err != nil {
			return err
		}
		meta := rec.Meta()
		meta.ID = id
		meta.Version = remoteVersion
		meta.SyncStatus = models.SyncStatusSynced
		if err := rec.Validate(); err != nil {
			return err
		}
		if err := persistTx(ctx, tx, sc, rec, nil); err != nil {
			return err
		}
		resolved = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func existsTx(ctx context.Context, tx dbx.DBTX, collection, id string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM records WHERE collection = ? AND id = ?`, collection, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check record existence: %w", err)
	}
	return true, nil
}

// persistTx upserts the row derived from rec: the JSON document plus the
// metadata and index columns. snapshot may carry pre-marshalled bytes.
func persistTx(ctx context.Context, tx dbx.DBTX, sc *Schema, rec models.Record, snapshot json.RawMessage) error {
	if snapshot == nil {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		snapshot = data
	}
	meta := rec.Meta()

	var idxStatus, idxCategory sql.NullString
	var idxStart, idxEnd sql.NullInt64
	if sc.Indexes.Status != nil {
		idxStatus = sql.NullString{String: sc.Indexes.Status(rec), Valid: true}
	}
	if sc.Indexes.Category != nil {
		idxCategory = sql.NullString{String: sc.Indexes.Category(rec), Valid: true}
	}
	if sc.Indexes.Times != nil {
		start, end := sc.Indexes.Times(rec)
		if !start.IsZero() {
			idxStart = sql.NullInt64{Int64: start.UnixNano(), Valid: true}
		}
		if !end.IsZero() {
			idxEnd = sql.NullInt64{Int64: end.UnixNano(), Valid: true}
		}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO records (collection, id, data, version, sync_status, created_at, updated_at,
			idx_status, idx_category, idx_time_start, idx_time_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			data = excluded.data,
			version = excluded.version,
			sync_status = excluded.sync_status,
			updated_at = excluded.updated_at,
			idx_status = excluded.idx_status,
			idx_category = excluded.idx_category,
			idx_time_start = excluded.idx_time_start,
			idx_time_end = excluded.idx_time_end
	`, sc.Name, meta.ID, string(snapshot), meta.Version, meta.SyncStatus,
		meta.CreatedAt.UnixNano(), meta.UpdatedAt.UnixNano(),
		idxStatus, idxCategory, idxStart, idxEnd)
	if err != nil {
		return fmt.Errorf("failed to persist record: %w", err)
	}
	return nil
}

// Query describes an indexed lookup. Zero-value fields are ignored; a
// Predicate, when set, filters decoded records in iteration order.
type Query struct {
	Status    string
	Category  string
	From, To  time.Time
	Predicate func(models.Record) bool
}

// Query returns a lazy, restartable sequence of detached records. Each
// range over the sequence re-runs the underlying query. Results follow
// the time index when a range is given, insertion order otherwise.
func (s *Store) Query(ctx context.Context, collection string, q Query) iter.Seq2[models.Record, error] {
	return func(yield func(models.Record, error) bool) {
		sc, err := s.schema(collection)
		if err != nil {
			yield(nil, err)
			return
		}

		sqlText := `SELECT data FROM records WHERE collection = ?`
		args := []any{sc.Name}
		if q.Status != "" {
			sqlText += ` AND idx_status = ?`
			args = append(args, q.Status)
		}
		if q.Category != "" {
			sqlText += ` AND idx_category = ?`
			args = append(args, q.Category)
		}
		timeOrdered := false
		if !q.From.IsZero() {
			sqlText += ` AND idx_time_start >= ?`
			args = append(args, q.From.UnixNano())
			timeOrdered = true
		}
		if !q.To.IsZero() {
			sqlText += ` AND idx_time_start < ?`
			args = append(args, q.To.UnixNano())
			timeOrdered = true
		}
		if timeOrdered {
			sqlText += ` ORDER BY idx_time_start, rowid`
		} else {
			sqlText += ` ORDER BY rowid`
		}

		rows, err := s.db.QueryContext(ctx, sqlText, args...)
		if err != nil {
			yield(nil, fmt.Errorf("failed to query records: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var data string
			if err := rows.Scan(&data); err != nil {
				yield(nil, err)
				return
			}
			rec, err := decodeRecord(sc, []byte(data))
			if err != nil {
				yield(nil, err)
				return
			}
			if q.Predicate != nil && !q.Predicate(rec) {
				continue
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// All collects a query into a slice, for callers that do not need
// streaming.
func (s *Store) All(ctx context.Context, collection string, q Query) ([]models.Record, error) {
	var result []models.Record
	for rec, err := range s.Query(ctx, collection, q) {
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, nil
}
