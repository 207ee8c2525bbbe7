package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-mdtree/internal/runtimeconfig"
	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

// ErrUnsupportedDriver is returned by OpenDB for drivers other than sqlite and postgres.
var ErrUnsupportedDriver = errors.New("snapshots: unsupported storage driver")

// OpenDB opens the bun database described by cfg. sqlite databases are
// limited to a single connection so in-memory DSNs keep one database.
func OpenDB(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	driver, dialect, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("snapshots: open %s: %w", driver, err)
	}
	db := bun.NewDB(sqlDB, dialect)
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func dialectFor(driver string) (string, schema.Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return "sqlite3", sqlitedialect.New(), nil
	case "postgres", "pg":
		return "postgres", pgdialect.New(), nil
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
}

// CreateSchema creates the snapshot table when it does not exist.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*Snapshot)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("snapshots: create table: %w", err)
	}
	return nil
}

// NewRepository builds the repository selected by cfg. The bun provider
// opens the database, creates the schema and, when caching is enabled,
// wraps reads in a go-repository-cache service. The returned close function
// releases the database and is never nil.
func NewRepository(ctx context.Context, cfg runtimeconfig.Config) (Repository, func() error, error) {
	noop := func() error { return nil }
	if strings.ToLower(strings.TrimSpace(cfg.Storage.Provider)) != "bun" {
		return NewMemoryRepository(), noop, nil
	}

	db, err := OpenDB(cfg.Storage)
	if err != nil {
		return nil, noop, err
	}
	if err := CreateSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, noop, err
	}
	if !cfg.Cache.Enabled {
		return NewBunRepository(db), db.Close, nil
	}

	cacheService, err := newCacheService(cfg.Cache.DefaultTTL)
	if err != nil {
		_ = db.Close()
		return nil, noop, err
	}
	return NewBunRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer()), db.Close, nil
}

func newCacheService(ttl time.Duration) (repocache.CacheService, error) {
	cacheCfg := repocache.DefaultConfig()
	if ttl > 0 {
		cacheCfg.TTL = ttl
	}
	service, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("snapshots: cache service: %w", err)
	}
	return service, nil
}
