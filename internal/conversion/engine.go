package conversion

import (
	"github.com/goliatone/go-mdtree/document"
	"github.com/goliatone/go-mdtree/internal/exporter"
	"github.com/goliatone/go-mdtree/internal/importer"
	"github.com/goliatone/go-mdtree/internal/logging"
	"github.com/goliatone/go-mdtree/internal/normalize"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
	"github.com/goliatone/go-mdtree/transformers"
)

// Options controls both conversion directions.
type Options struct {
	PreserveNewlines bool
	Normalize        bool
	Logger           interfaces.Logger
}

// Engine binds a grouped transformer list to a set of options. An Engine is
// immutable and safe for concurrent use.
type Engine struct {
	set  transformers.Set
	opts Options
}

// New groups ts once for repeated conversions. A nil list uses the defaults.
func New(ts []transformers.Transformer, opts Options) *Engine {
	if ts == nil {
		ts = transformers.Defaults()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOp()
	}
	return &Engine{set: transformers.Group(ts), opts: opts}
}

// Import converts text into a new document.
func (e *Engine) Import(text string) *document.Root {
	root := document.NewRoot()
	e.ImportInto(root, text)
	return root
}

// ImportInto appends the blocks parsed from text to root.
func (e *Engine) ImportInto(root *document.Root, text string) {
	if root == nil {
		return
	}
	if e.opts.Normalize {
		text = e.Normalize(text)
	}
	importer.ImportBlocks(root, text, e.set, importer.Options{
		PreserveNewlines: e.opts.PreserveNewlines,
		Logger:           e.opts.Logger,
	})
}

// Export renders root as markup.
func (e *Engine) Export(root *document.Root) string {
	return exporter.Export(root, e.set, exporter.Options{
		PreserveNewlines: e.opts.PreserveNewlines,
		Logger:           e.opts.Logger,
	})
}

// Normalize merges soft-wrapped lines using the engine's block starts.
func (e *Engine) Normalize(text string) string {
	return normalize.Normalize(text, e.set.BlockStarts())
}

// Report describes one import/export cycle.
type Report struct {
	Input  string
	Output string
	// Stable is set when the output text equals the input.
	Stable bool
	// TreeStable is set when importing the output yields the same tree as
	// importing the input.
	TreeStable bool
}

// RoundTrip converts text and compares both the text and the trees.
func (e *Engine) RoundTrip(text string) Report {
	first := e.Import(text)
	output := e.Export(first)
	second := e.Import(output)
	report := Report{
		Input:      text,
		Output:     output,
		Stable:     output == text,
		TreeStable: document.Equal(first, second),
	}
	if !report.TreeStable {
		e.opts.Logger.Debug("conversion.roundtrip.unstable", "input_bytes", len(text), "output_bytes", len(output))
	}
	return report
}
