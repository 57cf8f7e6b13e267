// Package store persists extracted resource records keyed by the owning
// installation. The sync loop only ever touches it through the Store
// interface: list, delete-all, insert-batch, and the transactional replace
// that combines the last two into the per-installation unit of consistency.
package store

import (
	"context"
	"time"

	"github.com/garrisonhq/garrison/internal/extractor"
)

// Record is one stored resource. SortIndex preserves extraction order so
// display order stays stable across re-syncs.
type Record struct {
	ID               string    `json:"id"`
	InstallationSlug string    `json:"installation_slug"`
	SortIndex        int       `json:"sort_index"`
	SyncedAt         time.Time `json:"synced_at"`

	extractor.Resource
}

// Store is the persistence boundary for resource records.
type Store interface {
	// ListOwnedBy returns an installation's records ordered by sort index.
	ListOwnedBy(ctx context.Context, slug string) ([]Record, error)

	// DeleteAllOwnedBy removes every record owned by an installation.
	DeleteAllOwnedBy(ctx context.Context, slug string) error

	// InsertBatch inserts records for an installation, assigning each a
	// zero-based sort index equal to its position.
	InsertBatch(ctx context.Context, slug string, resources []extractor.Resource) error

	// Replace atomically swaps an installation's record set for the given
	// resources. Old records are removed and the new batch inserted as one
	// unit; on failure the prior records are left in place.
	Replace(ctx context.Context, slug string, resources []extractor.Resource) error

	// Close releases the store's resources.
	Close() error
}
