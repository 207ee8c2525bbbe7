package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSQLiteMemoryDSN(t *testing.T) {
	tests := map[string]string{
		"":                     "file:mdtree?mode=memory&cache=shared",
		"TestStore/with cache": "file:TestStore_with_cache?mode=memory&cache=shared",
		"TestStore/upsert?x&y": "file:TestStore_upsert_x_y?mode=memory&cache=shared",
	}
	for name, want := range tests {
		if got := SQLiteMemoryDSN(name); got != want {
			t.Fatalf("SQLiteMemoryDSN(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestBunSQLiteIsUsable(t *testing.T) {
	db := BunSQLite(t)
	var one int
	if err := db.NewRaw("SELECT 1").Scan(context.Background(), &one); err != nil {
		t.Fatalf("select: %v", err)
	}
	if one != 1 {
		t.Fatalf("expected 1, got %d", one)
	}
}

func TestDecodeGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden.json")
	if err := os.WriteFile(path, []byte(`{"type":"root","children":[]}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var got map[string]any
	DecodeGolden(t, path, &got)
	if got["type"] != "root" {
		t.Fatalf("unexpected golden %v", got)
	}
	if string(ReadFixture(t, path)) == "" {
		t.Fatal("expected fixture bytes")
	}
}
