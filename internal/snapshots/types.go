package snapshots

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Snapshot is the stored result of converting one Markdown file. Tree holds
// the document tree in its JSON form.
type Snapshot struct {
	bun.BaseModel `bun:"table:mdtree_snapshots,alias:s"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug       string    `bun:"slug,notnull" json:"slug"`
	SourcePath string    `bun:"source_path,notnull,unique" json:"source_path"`
	Header     string    `bun:"header" json:"header,omitempty"`
	Markdown   string    `bun:"markdown,notnull" json:"markdown"`
	Tree       string    `bun:"tree,notnull" json:"tree"`
	Checksum   string    `bun:"checksum,notnull" json:"checksum"`
	Stable     bool      `bun:"stable,notnull,default:false" json:"stable"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func cloneSnapshot(s *Snapshot) *Snapshot {
	if s == nil {
		return nil
	}
	cloned := *s
	return &cloned
}
