package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/garrisonhq/garrison/internal/extractor"
)

// Memory is an in-memory Store used by tests and dry runs.
type Memory struct {
	mu      sync.Mutex
	records map[string][]Record
	now     func() time.Time

	// FailInsert forces the next insert to fail, for exercising the
	// partial-state failure path in tests.
	FailInsert error
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string][]Record),
		now:     time.Now,
	}
}

// ListOwnedBy returns an installation's records ordered by sort index.
func (m *Memory) ListOwnedBy(_ context.Context, slug string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records[slug]))
	copy(out, m.records[slug])
	return out, nil
}

// DeleteAllOwnedBy removes every record owned by an installation.
func (m *Memory) DeleteAllOwnedBy(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, slug)
	return nil
}

// InsertBatch inserts records for an installation in extraction order.
func (m *Memory) InsertBatch(_ context.Context, slug string, resources []extractor.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(slug, resources)
}

// Replace swaps an installation's record set as one unit.
func (m *Memory) Replace(_ context.Context, slug string, resources []extractor.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prior := m.records[slug]
	delete(m.records, slug)
	if err := m.insertLocked(slug, resources); err != nil {
		m.records[slug] = prior
		return err
	}
	return nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error { return nil }

func (m *Memory) insertLocked(slug string, resources []extractor.Resource) error {
	if m.FailInsert != nil {
		err := m.FailInsert
		m.FailInsert = nil
		return err
	}
	syncedAt := m.now()
	batch := make([]Record, 0, len(resources))
	for i, res := range resources {
		batch = append(batch, Record{
			ID:               uuid.NewString(),
			InstallationSlug: slug,
			SortIndex:        i,
			SyncedAt:         syncedAt,
			Resource:         res,
		})
	}
	m.records[slug] = append(m.records[slug], batch...)
	return nil
}
