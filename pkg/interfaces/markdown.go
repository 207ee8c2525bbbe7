package interfaces

import (
	"context"
	"time"

	"github.com/goliatone/go-mdtree/document"
)

// MarkdownRenderer converts Markdown into HTML. Renderers are used to preview
// exported Markdown and to check that a conversion keeps its meaning.
type MarkdownRenderer interface {
	// Render converts Markdown into HTML using the renderer's default settings.
	Render(markdown []byte) ([]byte, error)
	// RenderWithOptions converts Markdown into HTML using the supplied overrides.
	RenderWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises HTML rendering, keeping option names readable for
// configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// MarkdownService exposes the file workflows: loading Markdown documents,
// rendering them to HTML and converting them into document trees.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	Convert(ctx context.Context, path string, opts LoadOptions) (*Conversion, error)
	ConvertDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Conversion, error)
}

// Document represents a Markdown file with its front matter split off.
type Document struct {
	FilePath    string
	FrontMatter FrontMatter
	// Header is the raw front matter block, delimiters included, so it can
	// be written back unchanged.
	Header       []byte
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content so
	// callers can skip files that did not change.
	Checksum []byte
}

// FrontMatter models metadata extracted from Markdown files. Unknown keys are
// kept in Custom.
type FrontMatter struct {
	Title   string         `yaml:"title" json:"title"`
	Slug    string         `yaml:"slug" json:"slug"`
	Summary string         `yaml:"summary" json:"summary"`
	Tags    []string       `yaml:"tags" json:"tags"`
	Author  string         `yaml:"author" json:"author"`
	Date    time.Time      `yaml:"date" json:"date"`
	Draft   bool           `yaml:"draft" json:"draft"`
	Custom  map[string]any `yaml:",inline" json:"custom"`
	Raw     map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered and rendered.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}

// Conversion is a loaded document together with its tree and the Markdown
// produced by exporting that tree.
type Conversion struct {
	Document *Document
	Tree     *document.Root
	// Markdown is the exported body with the original header in front.
	Markdown string
	// Stable reports whether Markdown equals the original file content.
	Stable bool
}
