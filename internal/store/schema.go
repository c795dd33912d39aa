package store

import (
	"time"

	"github.com/hyphenhq/hyphen/internal/models"
)

// Indexes declares how indexed columns are derived from a record. Nil
// extractors leave the corresponding column null, which simply makes the
// matching query unavailable for that collection.
type Indexes struct {
	// Status feeds the equality index used by status queries.
	Status func(models.Record) string
	// Category feeds the equality index used by category queries.
	Category func(models.Record) string
	// Times feeds the range index used by date queries.
	Times func(models.Record) (start, end time.Time)
}

// Schema registers a collection with the store: its name, whether writes
// are mirrored into the sync queue, a factory for decoding rows, and its
// index extractors.
type Schema struct {
	Name     string
	Syncable bool
	New      func() models.Record
	Indexes  Indexes
}
