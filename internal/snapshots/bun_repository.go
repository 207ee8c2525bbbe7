package snapshots

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository implements Repository on bun with optional caching.
type BunRepository struct {
	repo repository.Repository[*Snapshot]
}

var _ Repository = (*BunRepository)(nil)

// NewBunRepository creates a snapshot repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a snapshot repository whose reads go
// through cacheService when both cacheService and serializer are set.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewSnapshotRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base}
}

func (r *BunRepository) Create(ctx context.Context, snapshot *Snapshot) (*Snapshot, error) {
	return r.repo.Create(ctx, snapshot)
}

func (r *BunRepository) Update(ctx context.Context, snapshot *Snapshot) (*Snapshot, error) {
	updated, err := r.repo.Update(ctx, snapshot,
		repository.UpdateByID(snapshot.ID.String()),
		repository.UpdateColumns(
			"slug",
			"header",
			"markdown",
			"tree",
			"checksum",
			"stable",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, snapshot.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) GetBySourcePath(ctx context.Context, sourcePath string) (*Snapshot, error) {
	record, err := r.repo.GetByIdentifier(ctx, sourcePath)
	if err != nil {
		return nil, mapRepositoryError(err, sourcePath)
	}
	return record, nil
}

// List returns every snapshot ordered by source path.
func (r *BunRepository) List(ctx context.Context) ([]*Snapshot, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("source_path ASC")
	}))
	return records, err
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Snapshot{ID: id})
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Key: key}
	}
	return fmt.Errorf("snapshot repository error: %w", err)
}
