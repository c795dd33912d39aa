// Package models defines the syncable record types shared by the local
// store, the sync queue and the domain services.
package models

import "time"

// SyncStatus tracks where a record stands relative to the remote authority.
type SyncStatus string

const (
	// SyncStatusSynced means the remote authority has confirmed this version.
	SyncStatusSynced SyncStatus = "synced"
	// SyncStatusPending means the record has local changes awaiting sync.
	SyncStatusPending SyncStatus = "pending"
	// SyncStatusConflict means reconciliation detected a version mismatch.
	// The record refuses further mutation until explicitly resolved.
	SyncStatusConflict SyncStatus = "conflict"
)

// Syncable is the base contract embedded in every domain record.
//
// Version and UpdatedAt move together and only together: the store's
// stamping interceptor is the single code path that touches them.
type Syncable struct {
	// ID is a globally unique identifier, assigned at creation, immutable.
	ID string `json:"id"`

	// CreatedAt is set once at creation.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed on every mutation.
	UpdatedAt time.Time `json:"updatedAt"`

	// Version starts at 1 and increments exactly once per local mutation.
	Version int64 `json:"version"`

	// SyncStatus is pending for new or locally mutated records, synced once
	// the reconciler confirms the version remotely, conflict on mismatch.
	SyncStatus SyncStatus `json:"syncStatus"`
}

// Meta returns the embedded sync metadata, satisfying Record.
func (s *Syncable) Meta() *Syncable { return s }

// Record is implemented by every entity persisted in the local store.
type Record interface {
	// Meta exposes the embedded Syncable for stamping and inspection.
	Meta() *Syncable
	// Validate reports field-level problems; invalid records are never
	// persisted.
	Validate() error
}

// Patch is a constrained partial update for a single record type.
// Apply merges the set fields into rec and fails when rec is not the
// type the patch was written for.
type Patch interface {
	Apply(rec Record) error
}
