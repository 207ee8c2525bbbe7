package exporter

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-mdtree/document"
	"github.com/goliatone/go-mdtree/internal/inline"
	"github.com/goliatone/go-mdtree/internal/logging"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
	"github.com/goliatone/go-mdtree/transformers"
)

// Options controls export.
type Options struct {
	// PreserveNewlines separates every block with a single newline so empty
	// paragraphs reproduce the blank lines they came from.
	PreserveNewlines bool
	Logger           interfaces.Logger
}

// Export renders root back to markup with the transformers of set. It never
// fails: blocks no transformer claims fall back to their text content.
func Export(root *document.Root, set transformers.Set, opts Options) string {
	if root == nil {
		return ""
	}
	e := newExporter(set, opts)

	var b strings.Builder
	for i, block := range root.Children {
		if i > 0 {
			b.WriteString(e.separator(root.Children[i-1], block))
		}
		b.WriteString(e.block(block))
	}
	return b.String()
}

type exporter struct {
	set     transformers.Set
	scanner *inline.Scanner
	starts  []*regexp.Regexp
	formats []*transformers.TextFormat
	// literal holds the formats of literal markers.
	literal document.Format
	opts    Options
	logger  interfaces.Logger
}

func newExporter(set transformers.Set, opts Options) *exporter {
	e := &exporter{
		set:     set,
		scanner: inline.New(set),
		starts:  set.BlockStarts(),
		formats: markerOrder(set.ExportFormats()),
		opts:    opts,
		logger:  opts.Logger,
	}
	if e.logger == nil {
		e.logger = logging.NoOp()
	}
	for _, tf := range set.Formats {
		if tf.Literal {
			e.literal = e.literal.With(tf.Format)
		}
	}
	return e
}

// markerOrder moves literal formats last so code markers open innermost.
func markerOrder(formats []*transformers.TextFormat) []*transformers.TextFormat {
	out := make([]*transformers.TextFormat, 0, len(formats))
	for _, tf := range formats {
		if !tf.Literal {
			out = append(out, tf)
		}
	}
	for _, tf := range formats {
		if tf.Literal {
			out = append(out, tf)
		}
	}
	return out
}

// separator follows the editor convention: a blank line between two blocks
// with content, a single newline next to an empty paragraph, and a single
// newline everywhere when newlines are preserved.
func (e *exporter) separator(prev, next document.Block) string {
	if e.opts.PreserveNewlines || isEmptyParagraph(prev) || isEmptyParagraph(next) {
		return "\n"
	}
	return "\n\n"
}

func isEmptyParagraph(block document.Block) bool {
	p, ok := block.(*document.Paragraph)
	return ok && p.IsEmpty()
}

func (e *exporter) block(block document.Block) string {
	for _, el := range e.set.Elements {
		if el.Export == nil {
			continue
		}
		if out, ok := el.Export(block, e.renderBlock).Get(); ok {
			return out
		}
	}
	for _, ml := range e.set.Multiline {
		if ml.Export == nil {
			continue
		}
		if out, ok := ml.Export(block, e.renderBlock).Get(); ok {
			return out
		}
	}
	e.logger.Trace("export.block.fallback", "kind", string(block.Kind()))
	return e.fallback(block)
}

func (e *exporter) fallback(block document.Block) string {
	switch b := block.(type) {
	case *document.Custom:
		if len(b.Children) == 0 {
			return b.Text
		}
		return e.renderBlock(b.Children)
	case document.InlineContainer:
		return e.renderBlock(b.Inlines())
	case *document.Code:
		return b.Text
	case *document.List:
		return listText(b)
	default:
		return ""
	}
}

func listText(list *document.List) string {
	lines := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		if item.Sublist != nil {
			lines = append(lines, listText(item.Sublist))
			continue
		}
		lines = append(lines, document.TextContent(item.Children))
	}
	return strings.Join(lines, "\n")
}

// renderBlock renders the inline content of a block. Lines that would be
// read back as a block start get a leading backslash.
func (e *exporter) renderBlock(nodes []document.Inline) string {
	return e.guard(e.renderInline(nodes, 0))
}

func (e *exporter) guard(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if e.startsBlock(line) {
			lines[i] = `\` + line
			continue
		}
		// A literal backslash in front of a block start would be taken as a
		// guard on import.
		if len(line) > 1 && line[0] == '\\' && !e.scanner.IsControl(line[1]) && e.startsBlock(line[1:]) {
			lines[i] = `\` + line
		}
	}
	return strings.Join(lines, "\n")
}

func (e *exporter) startsBlock(line string) bool {
	for _, re := range e.starts {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
