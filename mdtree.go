package mdtree

import (
	"github.com/goliatone/go-mdtree/document"
	"github.com/goliatone/go-mdtree/internal/conversion"
	"github.com/goliatone/go-mdtree/internal/logging"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
	"github.com/goliatone/go-mdtree/transformers"
)

// Option adjusts a single import or export call.
type Option func(*options)

type options struct {
	preserveNewlines bool
	normalize        bool
	logger           interfaces.Logger
}

func buildOptions(opts []Option) options {
	o := options{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = logging.NoOp()
	}
	return o
}

// WithPreserveNewlines keeps every blank line as an empty paragraph on import
// and separates blocks with a single newline on export.
func WithPreserveNewlines(preserve bool) Option {
	return func(o *options) {
		o.preserveNewlines = preserve
	}
}

// WithNormalize merges soft-wrapped lines before import.
func WithNormalize(enabled bool) Option {
	return func(o *options) {
		o.normalize = enabled
	}
}

// WithLogger traces dispatch decisions to logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Import converts text into a new document. A nil transformer list uses
// transformers.Defaults.
func Import(text string, ts []transformers.Transformer, opts ...Option) *document.Root {
	return engine(ts, opts).Import(text)
}

// ImportInto appends the blocks parsed from text to root. Existing blocks are
// left untouched and are never merged with the new content.
func ImportInto(root *document.Root, text string, ts []transformers.Transformer, opts ...Option) {
	engine(ts, opts).ImportInto(root, text)
}

// Export renders root as markup with the same transformer list used to import it.
func Export(root *document.Root, ts []transformers.Transformer, opts ...Option) string {
	return engine(ts, opts).Export(root)
}

// Normalize merges soft-wrapped lines using the block starts of the default
// transformers.
func Normalize(text string) string {
	return NormalizeWith(text, nil)
}

// NormalizeWith merges soft-wrapped lines using the block starts of ts.
func NormalizeWith(text string, ts []transformers.Transformer) string {
	return engine(ts, nil).Normalize(text)
}

// Convert imports text and exports the resulting tree.
func Convert(text string, ts []transformers.Transformer, opts ...Option) string {
	e := engine(ts, opts)
	return e.Export(e.Import(text))
}

// Engine converts between Markdown and document trees with a fixed
// transformer list and options.
type Engine = conversion.Engine

// Report describes one import/export cycle.
type Report = conversion.Report

// RoundTrip converts text and compares both the text and the trees.
func RoundTrip(text string, ts []transformers.Transformer, opts ...Option) Report {
	return engine(ts, opts).RoundTrip(text)
}

func engine(ts []transformers.Transformer, opts []Option) *conversion.Engine {
	o := buildOptions(opts)
	return conversion.New(ts, conversion.Options{
		PreserveNewlines: o.preserveNewlines,
		Normalize:        o.normalize,
		Logger:           o.logger,
	})
}
