// Package identity derives the stable ids mdtree gives to stored snapshots.
package identity

import (
	"path"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const snapshotPrefix = "go-mdtree:snapshot:"

// SnapshotKey is the normalized key of a source path: backslashes become
// slashes and the path is cleaned, so "./docs/a.md" and "docs\a.md" agree.
// Blank paths have no key.
func SnapshotKey(sourcePath string) string {
	trimmed := strings.TrimSpace(sourcePath)
	if trimmed == "" {
		return ""
	}
	return snapshotPrefix + path.Clean(strings.ReplaceAll(trimmed, `\`, "/"))
}

// SnapshotUUID is the id of the snapshot stored for a source file, or
// uuid.Nil for a blank path.
func SnapshotUUID(sourcePath string) uuid.UUID {
	key := SnapshotKey(sourcePath)
	if key == "" {
		return uuid.Nil
	}
	id, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err == nil && id != uuid.Nil {
		return id
	}
	// hashid only fails on input it cannot normalize; fall back to a name
	// based UUID so the id stays deterministic.
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key))
}
