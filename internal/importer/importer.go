package importer

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-mdtree/document"
	"github.com/goliatone/go-mdtree/internal/inline"
	"github.com/goliatone/go-mdtree/internal/logging"
	"github.com/goliatone/go-mdtree/internal/normalize"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
	"github.com/goliatone/go-mdtree/transformers"
)

// Options controls block import.
type Options struct {
	// PreserveNewlines keeps every blank line as an empty paragraph and stops
	// plain lines from continuing the previous block.
	PreserveNewlines bool
	Logger           interfaces.Logger
}

// ImportBlocks parses text line by line and appends the resulting blocks to
// root. It never fails: unmatched lines become paragraphs and unterminated
// multi-line blocks take the remaining input.
func ImportBlocks(root *document.Root, text string, set transformers.Set, opts Options) {
	b := &builder{
		root:    root,
		offset:  len(root.Children),
		set:     set,
		scanner: inline.New(set),
		starts:  set.BlockStarts(),
		opts:    opts,
		logger:  opts.Logger,
	}
	if b.logger == nil {
		b.logger = logging.NoOp()
	}

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); {
		line := lines[i]
		if b.importElement(line) {
			i++
			continue
		}
		if next, ok := b.importMultiline(lines, i); ok {
			i = next
			continue
		}
		b.importParagraph(line)
		i++
	}

	if !opts.PreserveNewlines {
		b.dropEmptyParagraphs()
	}
}

// builder implements transformers.Builder over the blocks appended by one
// ImportBlocks call.
type builder struct {
	root    *document.Root
	offset  int
	set     transformers.Set
	scanner *inline.Scanner
	starts  []*regexp.Regexp
	opts    Options
	logger  interfaces.Logger
}

var _ transformers.Builder = (*builder)(nil)

// Last returns the block most recently appended by this import.
func (b *builder) Last() document.Block {
	if len(b.root.Children) <= b.offset {
		return nil
	}
	return b.root.Last()
}

// Inline scans one line of block content. A leading backslash that guards a
// block start is dropped first.
func (b *builder) Inline(text string) []document.Inline {
	if strings.HasPrefix(text, `\`) && matchesAny(b.starts, text[1:]) {
		text = text[1:]
	}
	return b.scanner.Import(text, 0)
}

func (b *builder) append(block document.Block) {
	if block == nil || block == b.Last() {
		return
	}
	b.root.Append(block)
}

func (b *builder) importElement(line string) bool {
	for _, el := range b.set.Elements {
		loc := el.Pattern.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		block, ok := el.Import(b, transformers.Match{
			Line:   line,
			Groups: submatches(line, loc),
			Rest:   line[loc[1]:],
		}).Get()
		if !ok {
			b.logger.Trace("import.element.declined", "transformer", el.Name)
			continue
		}
		b.append(block)
		return true
	}
	return false
}

// importMultiline tries every multi-line transformer at line i and returns
// the index of the first line after the consumed span.
func (b *builder) importMultiline(lines []string, i int) (int, bool) {
	line := lines[i]
	for _, ml := range b.set.Multiline {
		loc := ml.Start.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		span, next := captureSpan(ml, lines, i, loc)
		block, ok := ml.Import(b, span).Get()
		if !ok {
			b.logger.Trace("import.multiline.declined", "transformer", ml.Name, "line", i)
			continue
		}
		if !span.Terminated() {
			b.logger.Debug("import.multiline.unterminated", "transformer", ml.Name, "line", i)
		}
		b.append(block)
		return next, true
	}
	return i, false
}

// captureSpan collects the lines of a multi-line block. The end pattern is
// first tried on the start line after the start match, then on each later
// line. Without an end match every remaining line is captured.
func captureSpan(ml *transformers.MultilineElement, lines []string, i int, startLoc []int) (transformers.Span, int) {
	line := lines[i]
	rest := line[startLoc[1]:]
	span := transformers.Span{Start: submatches(line, startLoc)}

	if ml.End == nil {
		span.Lines = []string{rest}
		return span, i + 1
	}
	if end, at, ok := endMatch(ml, span.Start, rest); ok {
		span.End = end
		span.Lines = []string{rest[:at]}
		return span, i + 1
	}

	span.Lines = []string{rest}
	for j := i + 1; j < len(lines); j++ {
		if end, at, ok := endMatch(ml, span.Start, lines[j]); ok {
			span.End = end
			span.Lines = append(span.Lines, lines[j][:at])
			return span, j + 1
		}
		span.Lines = append(span.Lines, lines[j])
	}
	return span, len(lines)
}

func endMatch(ml *transformers.MultilineElement, start []string, line string) ([]string, int, bool) {
	loc := ml.End.FindStringSubmatchIndex(line)
	if loc == nil {
		return nil, 0, false
	}
	end := submatches(line, loc)
	if ml.Closes != nil && !ml.Closes(start, end) {
		return nil, 0, false
	}
	return end, loc[0], true
}

func (b *builder) importParagraph(line string) {
	if normalize.IsBlank(line) {
		b.root.Append(&document.Paragraph{})
		return
	}

	children := b.Inline(line)
	if !b.opts.PreserveNewlines {
		if target := b.continuation(); target != nil {
			target.AppendInlines(&document.LineBreak{})
			target.AppendInlines(children...)
			return
		}
	}
	b.root.Append(&document.Paragraph{Children: children})
}

// continuation returns the block a plain line extends: the previous
// paragraph, quote or deepest list item, when it already holds content.
func (b *builder) continuation() document.InlineContainer {
	var target document.InlineContainer
	switch last := b.Last().(type) {
	case *document.Paragraph:
		target = last
	case *document.Quote:
		target = last
	case *document.List:
		if item := last.LastContentItem(); item != nil {
			target = item
		}
	}
	if target == nil || document.TextContent(target.Inlines()) == "" {
		return nil
	}
	return target
}

// dropEmptyParagraphs removes the blank-line paragraphs added by this import.
// A document left with nothing keeps a single empty paragraph.
func (b *builder) dropEmptyParagraphs() {
	added := b.root.Children[b.offset:]
	kept := make([]document.Block, 0, len(added))
	for _, block := range added {
		if p, ok := block.(*document.Paragraph); ok && p.IsEmpty() {
			continue
		}
		kept = append(kept, block)
	}
	if len(kept) == 0 && b.offset == 0 && len(added) > 0 {
		kept = append(kept, added[0])
	}
	b.root.Children = append(b.root.Children[:b.offset], kept...)
}

func submatches(s string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for g := range groups {
		if loc[2*g] >= 0 {
			groups[g] = s[loc[2*g]:loc[2*g+1]]
		}
	}
	return groups
}

func matchesAny(patterns []*regexp.Regexp, line string) bool {
	for _, re := range patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
