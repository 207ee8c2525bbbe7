package transformers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-mdtree/document"
)

// ListIndentSize is the number of columns per list nesting level, both for
// measuring imported indentation and for rendering exported nesting.
const ListIndentSize = 4

// Heading handles "# " through "###### " lines.
var Heading = &Element{
	Name:         "heading",
	Pattern:      regexp.MustCompile(`^(#{1,6})\s`),
	Dependencies: []document.Kind{document.KindHeading},
	Import: func(b Builder, m Match) Result[document.Block] {
		return Matched[document.Block](&document.Heading{
			Level:    len(m.Groups[1]),
			Children: b.Inline(m.Rest),
		})
	},
	Export: func(block document.Block, render RenderInline) Result[string] {
		heading, ok := block.(*document.Heading)
		if !ok {
			return NoMatch[string]()
		}
		level := min(max(heading.Level, 1), 6)
		return Matched(strings.Repeat("#", level) + " " + render(heading.Children))
	},
}

// Quote handles "> " lines. Consecutive quote lines extend the previous quote.
var Quote = &Element{
	Name:         "quote",
	Pattern:      regexp.MustCompile(`^>\s`),
	Dependencies: []document.Kind{document.KindQuote},
	Import: func(b Builder, m Match) Result[document.Block] {
		children := b.Inline(m.Rest)
		if prev, ok := b.Last().(*document.Quote); ok {
			prev.AppendInlines(&document.LineBreak{})
			prev.AppendInlines(children...)
			return Matched[document.Block](prev)
		}
		return Matched[document.Block](&document.Quote{Children: children})
	},
	Export: func(block document.Block, render RenderInline) Result[string] {
		quote, ok := block.(*document.Quote)
		if !ok {
			return NoMatch[string]()
		}
		lines := strings.Split(render(quote.Children), "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return Matched(strings.Join(lines, "\n"))
	},
}

// UnorderedList handles "- ", "* " and "+ " items.
var UnorderedList = &Element{
	Name:         "unordered-list",
	Pattern:      regexp.MustCompile(`^(\s*)[-*+]\s`),
	Dependencies: []document.Kind{document.KindList, document.KindListItem},
	Import:       importListItem(document.ListBullet),
	Export:       exportListBlock,
}

// OrderedList handles "1. " items. The first number becomes the list start.
var OrderedList = &Element{
	Name:         "ordered-list",
	Pattern:      regexp.MustCompile(`^(\s*)(\d{1,9})\.\s`),
	Dependencies: []document.Kind{document.KindList, document.KindListItem},
	Import:       importListItem(document.ListNumber),
	Export:       exportListBlock,
}

// CheckList handles "- [ ] " and "- [x] " items. It must be registered before
// UnorderedList, which would otherwise claim the line.
var CheckList = &Element{
	Name:         "check-list",
	Pattern:      regexp.MustCompile(`^(\s*)(?:[-*+]\s)?\s?(\[(\s|x|X)?\])\s`),
	Dependencies: []document.Kind{document.KindList, document.KindListItem},
	Import:       importListItem(document.ListCheck),
	Export:       exportListBlock,
}

// HorizontalRule handles "---", "***" and "___" lines.
var HorizontalRule = &Element{
	Name:         "horizontal-rule",
	Pattern:      regexp.MustCompile(`^(?:---|\*\*\*|___)\s?$`),
	Dependencies: []document.Kind{document.KindHorizontalRule},
	Import: func(Builder, Match) Result[document.Block] {
		return Matched[document.Block](&document.HorizontalRule{})
	},
	Export: func(block document.Block, _ RenderInline) Result[string] {
		if _, ok := block.(*document.HorizontalRule); !ok {
			return NoMatch[string]()
		}
		return Matched("***")
	},
}

func importListItem(listType document.ListType) func(Builder, Match) Result[document.Block] {
	return func(b Builder, m Match) Result[document.Block] {
		item := &document.ListItem{Children: b.Inline(m.Rest)}
		start := 0
		switch listType {
		case document.ListNumber:
			n, err := strconv.Atoi(m.Groups[2])
			if err != nil {
				return NoMatch[document.Block]()
			}
			start = n
		case document.ListCheck:
			item.Checked = strings.EqualFold(strings.TrimSpace(group(m.Groups, 3)), "x")
		}
		depth := IndentDepth(m.Groups[1])
		return Matched(attachListItem(b.Last(), listType, start, depth, item))
	}
}

// attachListItem places item at depth inside the trailing list, creating
// wrapper items for missing levels. A new top-level list is returned when the
// document does not end with a compatible list.
func attachListItem(last document.Block, listType document.ListType, start, depth int, item *document.ListItem) document.Block {
	top, ok := last.(*document.List)
	if !ok || (depth == 0 && top.Type != listType) {
		return nestedList(listType, start, depth, item)
	}

	parent, current := (*document.List)(nil), top
	for d := 0; d < depth; d++ {
		lastItem := current.LastItem()
		if lastItem == nil || lastItem.Sublist == nil {
			sub := &document.List{Type: listType, Start: start}
			current.Append(&document.ListItem{Sublist: sub})
			parent, current = current, sub
			continue
		}
		parent, current = current, lastItem.Sublist
	}
	if current.Type != listType && parent != nil {
		sub := &document.List{Type: listType, Start: start}
		parent.Append(&document.ListItem{Sublist: sub})
		current = sub
	}
	current.Append(item)
	return top
}

func nestedList(listType document.ListType, start, depth int, item *document.ListItem) *document.List {
	top := &document.List{Type: listType, Start: start}
	current := top
	for d := 0; d < depth; d++ {
		sub := &document.List{Type: listType, Start: start}
		current.Append(&document.ListItem{Sublist: sub})
		current = sub
	}
	current.Append(item)
	return top
}

func exportListBlock(block document.Block, render RenderInline) Result[string] {
	list, ok := block.(*document.List)
	if !ok {
		return NoMatch[string]()
	}
	return Matched(exportList(list, render, 0))
}

func exportList(list *document.List, render RenderInline, depth int) string {
	lines := make([]string, 0, len(list.Items))
	index := 0
	for _, item := range list.Items {
		if item.Sublist != nil {
			if nested := exportList(item.Sublist, render, depth+1); nested != "" {
				lines = append(lines, nested)
			}
			continue
		}
		indent := strings.Repeat(" ", depth*ListIndentSize)
		lines = append(lines, indent+listPrefix(list, item, index)+render(item.Children))
		index++
	}
	return strings.Join(lines, "\n")
}

func listPrefix(list *document.List, item *document.ListItem, index int) string {
	switch list.Type {
	case document.ListNumber:
		return strconv.Itoa(list.Start+index) + ". "
	case document.ListCheck:
		if item.Checked {
			return "- [x] "
		}
		return "- [ ] "
	default:
		return "- "
	}
}

func group(groups []string, i int) string {
	if i < len(groups) {
		return groups[i]
	}
	return ""
}
