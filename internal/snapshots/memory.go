package snapshots

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*Snapshot
	bySource map[string]uuid.UUID
}

// NewMemoryRepository constructs an in-memory snapshot repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:     make(map[uuid.UUID]*Snapshot),
		bySource: make(map[string]uuid.UUID),
	}
}

func (m *memoryRepository) Create(_ context.Context, snapshot *Snapshot) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneSnapshot(snapshot)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}
	m.byID[cloned.ID] = cloned
	m.bySource[cloned.SourcePath] = cloned.ID
	return cloneSnapshot(cloned), nil
}

func (m *memoryRepository) Update(_ context.Context, snapshot *Snapshot) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[snapshot.ID]
	if !ok {
		return nil, &NotFoundError{Key: snapshot.ID.String()}
	}
	cloned := cloneSnapshot(snapshot)
	cloned.SourcePath = existing.SourcePath
	cloned.CreatedAt = existing.CreatedAt
	m.byID[cloned.ID] = cloned
	return cloneSnapshot(cloned), nil
}

func (m *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneSnapshot(record), nil
}

func (m *memoryRepository) GetBySourcePath(_ context.Context, sourcePath string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySource[sourcePath]
	if !ok {
		return nil, &NotFoundError{Key: sourcePath}
	}
	return cloneSnapshot(m.byID[id]), nil
}

func (m *memoryRepository) List(_ context.Context) ([]*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Snapshot, 0, len(m.byID))
	for _, record := range m.byID {
		out = append(out, cloneSnapshot(record))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SourcePath < out[j].SourcePath
	})
	return out, nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Key: id.String()}
	}
	delete(m.bySource, record.SourcePath)
	delete(m.byID, id)
	return nil
}
