package reconcile

import (
	"context"
	"encoding/json"

	"github.com/hyphenhq/hyphen/internal/queue"
)

// Outcome classifies the remote authority's answer to a pushed entry.
type Outcome string

const (
	// OutcomeAccepted means the remote persisted the mutation.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeConflict means the remote holds a newer version of the
	// entity than the one the mutation was based on.
	OutcomeConflict Outcome = "conflict"
	// OutcomeRejected means the remote refused the mutation for a
	// non-version reason; retrying would not help.
	OutcomeRejected Outcome = "rejected"
)

// PushResult is the definitive answer for one entry. Transport-level
// failures are returned as errors from Push instead and are retried.
type PushResult struct {
	Outcome       Outcome
	RemoteVersion int64
	// RemoteData carries the remote copy on conflict so the caller can
	// offer accept-remote resolution. Empty means deleted remotely.
	RemoteData json.RawMessage
	// Reason explains a rejection.
	Reason string
}

// RemoteAuthority is the injected server-of-record boundary. The actual
// transport is out of scope for this library.
type RemoteAuthority interface {
	Push(ctx context.Context, entry *queue.Entry) (PushResult, error)
}
