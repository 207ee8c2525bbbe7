package testsupport

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var dbNameReplacer = strings.NewReplacer("/", "_", " ", "_", "?", "_", "&", "_")

// SQLiteMemoryDSN is the DSN of a shared in-memory sqlite database. The same
// name reaches the same database; distinct names keep tests isolated.
func SQLiteMemoryDSN(name string) string {
	if name = dbNameReplacer.Replace(strings.TrimSpace(name)); name == "" {
		name = "mdtree"
	}
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

// BunSQLite opens an in-memory sqlite database named after the test and wraps
// it in bun. The database is closed when the test ends.
func BunSQLite(tb testing.TB) *bun.DB {
	tb.Helper()
	sqlDB, err := sql.Open("sqlite3", SQLiteMemoryDSN(tb.Name()))
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	return db
}
