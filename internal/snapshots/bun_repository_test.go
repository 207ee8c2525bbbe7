package snapshots_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-mdtree/internal/identity"
	"github.com/goliatone/go-mdtree/internal/runtimeconfig"
	"github.com/goliatone/go-mdtree/internal/snapshots"
	"github.com/goliatone/go-mdtree/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

func newBunDB(t *testing.T) *bun.DB {
	t.Helper()
	db := testsupport.BunSQLite(t)
	if err := snapshots.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func TestBunRepositoryWithCache(t *testing.T) {
	ctx := context.Background()
	db := newBunDB(t)

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheSvc, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	repo := snapshots.NewBunRepositoryWithCache(db, cacheSvc, repocache.NewDefaultKeySerializer())
	svc := newService(t, guideFS(t), repo)

	result, err := svc.Convert(ctx, "docs/guide.md")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !result.Created {
		t.Fatalf("expected created snapshot, got %+v", result)
	}

	first, err := repo.GetByID(ctx, result.Snapshot.ID)
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	cached, err := repo.GetByID(ctx, result.Snapshot.ID)
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if first.Checksum != cached.Checksum || cached.Slug != "getting-started" {
		t.Fatalf("unexpected cached snapshot %+v", cached)
	}

	bySource, err := repo.GetBySourcePath(ctx, "docs/guide.md")
	if err != nil {
		t.Fatalf("get by source path: %v", err)
	}
	if bySource.ID != result.Snapshot.ID {
		t.Fatalf("expected %s, got %s", result.Snapshot.ID, bySource.ID)
	}

	out, err := svc.Export(ctx, result.Snapshot.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out != result.Snapshot.Markdown {
		t.Fatalf("export mismatch:\n%s\n---\n%s", out, result.Snapshot.Markdown)
	}
}

func TestBunRepositoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := snapshots.NewBunRepository(newBunDB(t))

	id := identity.SnapshotUUID("docs/a.md")
	created, err := repo.Create(ctx, &snapshots.Snapshot{
		ID:         id,
		Slug:       "a",
		SourcePath: "docs/a.md",
		Markdown:   "a",
		Tree:       `{"type":"root"}`,
		Checksum:   "one",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	created.Markdown = "b"
	created.Checksum = "two"
	if _, err := repo.Update(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Markdown != "b" || got.Checksum != "two" {
		t.Fatalf("expected updated snapshot, got %+v", got)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(list))
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, id); !errors.Is(err, snapshots.ErrSnapshotNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNewRepositorySelectsProvider(t *testing.T) {
	ctx := context.Background()

	cfg := runtimeconfig.DefaultConfig()
	repo, closeFn, err := snapshots.NewRepository(ctx, cfg)
	if err != nil {
		t.Fatalf("memory repository: %v", err)
	}
	if _, ok := repo.(*snapshots.BunRepository); ok {
		t.Fatalf("expected memory repository for the default provider")
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	cfg.Storage.Provider = "bun"
	cfg.Storage.DSN = "file:" + t.Name() + "?mode=memory&cache=shared"
	cfg.Cache.Enabled = true
	repo, closeFn, err = snapshots.NewRepository(ctx, cfg)
	if err != nil {
		t.Fatalf("bun repository: %v", err)
	}
	t.Cleanup(func() { _ = closeFn() })
	if _, ok := repo.(*snapshots.BunRepository); !ok {
		t.Fatalf("expected bun repository, got %T", repo)
	}
	if _, err := repo.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	_, err := snapshots.OpenDB(runtimeconfig.StorageConfig{Driver: "oracle", DSN: "x"})
	if !errors.Is(err, snapshots.ErrUnsupportedDriver) {
		t.Fatalf("expected unsupported driver, got %v", err)
	}
}
