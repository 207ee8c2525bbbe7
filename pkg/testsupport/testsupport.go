// Package testsupport holds helpers shared by mdtree tests: fixture and
// golden file loading, and throwaway sqlite databases for the bun store.
package testsupport

import (
	"encoding/json"
	"os"
	"testing"
)

// ReadFixture returns the contents of a fixture file or fails tb.
func ReadFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}

// DecodeGolden unmarshals the JSON golden file at path into v or fails tb.
func DecodeGolden(tb testing.TB, path string, v any) {
	tb.Helper()
	if err := json.Unmarshal(ReadFixture(tb, path), v); err != nil {
		tb.Fatalf("decode golden %s: %v", path, err)
	}
}
