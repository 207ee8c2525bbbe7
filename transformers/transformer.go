package transformers

import (
	"math/bits"
	"regexp"

	"github.com/goliatone/go-mdtree/document"
)

// Variant tags the four transformer shapes.
type Variant int

const (
	VariantElement Variant = iota + 1
	VariantMultilineElement
	VariantTextFormat
	VariantTextMatch
)

func (v Variant) String() string {
	switch v {
	case VariantElement:
		return "element"
	case VariantMultilineElement:
		return "multiline-element"
	case VariantTextFormat:
		return "text-format"
	case VariantTextMatch:
		return "text-match"
	default:
		return "unknown"
	}
}

// Transformer is a sealed union over *Element, *MultilineElement, *TextFormat
// and *TextMatch. Callers assemble an ordered []Transformer; the position of a
// transformer in that list is its precedence in both directions.
type Transformer interface {
	Variant() Variant
	transformer()
}

// Builder exposes the block importer state to Element and MultilineElement
// import callbacks.
type Builder interface {
	// Last returns the block most recently appended to the document, or nil.
	Last() document.Block
	// Inline runs the inline importer over text with no inherited format.
	Inline(text string) []document.Inline
}

// Match is a single-line Element match.
type Match struct {
	Line   string
	Groups []string
	// Rest is the remainder of the line after the matched prefix.
	Rest string
}

// Span is the captured region of a MultilineElement.
type Span struct {
	Start []string
	// End is nil when the input ended before the end pattern was found.
	End   []string
	Lines []string
}

// Terminated reports whether the end pattern was found.
func (s Span) Terminated() bool {
	return s.End != nil
}

// RenderInline exports inline nodes using the active text transformers.
type RenderInline func(nodes []document.Inline) string

// ScanFunc runs the inline importer over text with an inherited format.
type ScanFunc func(text string, format document.Format) []document.Inline

// Element matches one line and produces or extends one block.
//
// Import returns Matched(block) to consume the line. When the returned block is
// the builder's current last block, the line was merged into it and nothing
// is appended.
type Element struct {
	Name         string
	Pattern      *regexp.Regexp
	Dependencies []document.Kind
	Import       func(b Builder, m Match) Result[document.Block]
	Export       func(block document.Block, render RenderInline) Result[string]
}

func (*Element) Variant() Variant { return VariantElement }
func (*Element) transformer()     {}

// MultilineElement matches a start line, collects lines until the end pattern
// and produces one block from the captured span.
type MultilineElement struct {
	Name  string
	Start *regexp.Regexp
	End   *regexp.Regexp
	// Closes reports whether an end match closes the block its start match
	// opened. A rejected end line is captured as content. Nil accepts every
	// end match.
	Closes       func(start, end []string) bool
	Dependencies []document.Kind
	Import       func(b Builder, span Span) Result[document.Block]
	Export       func(block document.Block, render RenderInline) Result[string]
}

func (*MultilineElement) Variant() Variant { return VariantMultilineElement }
func (*MultilineElement) transformer()     {}

// TextFormat wraps inline text in a symmetric marker pair.
type TextFormat struct {
	Marker string
	Format document.Format
	// Intraword allows the marker to sit between two word characters.
	Intraword bool
	// Literal spans are neither re-scanned nor unescaped (code spans).
	Literal bool
}

func (*TextFormat) Variant() Variant { return VariantTextFormat }
func (*TextFormat) transformer()     {}

// Single reports whether the transformer applies exactly one format bit.
// Only single-format transformers are used on export.
func (t *TextFormat) Single() bool {
	return bits.OnesCount16(uint16(t.Format)) == 1
}

// TextMatch converts an inline pattern into a typed inline node and back.
type TextMatch struct {
	Name    string
	Pattern *regexp.Regexp
	// Lead is the first byte of every match. Literal text that would match the
	// pattern gets this byte escaped on export. Zero disables escaping.
	Lead         byte
	Dependencies []document.Kind
	Import       func(groups []string, format document.Format, scan ScanFunc) Result[document.Inline]
	Export       func(node document.Inline, render RenderInline) Result[string]
}

func (*TextMatch) Variant() Variant { return VariantTextMatch }
func (*TextMatch) transformer()     {}
