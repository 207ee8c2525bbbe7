package snapshots

import (
	"context"
	"errors"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrSnapshotNotFound is matched by every NotFoundError.
var ErrSnapshotNotFound = errors.New("snapshots: not found")

// Repository persists snapshots.
type Repository interface {
	Create(ctx context.Context, snapshot *Snapshot) (*Snapshot, error)
	Update(ctx context.Context, snapshot *Snapshot) (*Snapshot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	GetBySourcePath(ctx context.Context, sourcePath string) (*Snapshot, error)
	List(ctx context.Context) ([]*Snapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when a snapshot cannot be located.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return ErrSnapshotNotFound.Error()
	}
	return fmt.Sprintf("snapshot %q not found", e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrSnapshotNotFound
}

// NewSnapshotRepository creates the generic repository for snapshot records.
// Records are identified by their source path.
func NewSnapshotRepository(db *bun.DB) repository.Repository[*Snapshot] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Snapshot]{
		NewRecord: func() *Snapshot { return &Snapshot{} },
		GetID: func(s *Snapshot) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Snapshot, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "source_path"
		},
		GetIdentifierValue: func(s *Snapshot) string {
			return s.SourcePath
		},
	})
}
