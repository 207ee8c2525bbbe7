package document

import "strings"

// Kind names a node type. Built-in kinds are declared below; custom blocks and
// inline nodes report their own Type as their kind.
type Kind string

const (
	KindRoot           Kind = "root"
	KindParagraph      Kind = "paragraph"
	KindHeading        Kind = "heading"
	KindQuote          Kind = "quote"
	KindList           Kind = "list"
	KindListItem       Kind = "listitem"
	KindCode           Kind = "code"
	KindHorizontalRule Kind = "horizontalrule"
	KindText           Kind = "text"
	KindLineBreak      Kind = "linebreak"
	KindLink           Kind = "link"
)

// Node is implemented by every tree node.
type Node interface {
	Kind() Kind
}

// Block is a top-level structural node owned by the Root.
type Block interface {
	Node
	block()
}

// Inline is a leaf-level node owned by a block (or a link).
type Inline interface {
	Node
	inline()
}

// InlineContainer is implemented by nodes whose children are inline nodes.
type InlineContainer interface {
	Node
	Inlines() []Inline
	AppendInlines(nodes ...Inline)
}

// Root owns the ordered block sequence of a document.
type Root struct {
	Children []Block
}

// NewRoot returns an empty document root.
func NewRoot() *Root {
	return &Root{}
}

func (*Root) Kind() Kind { return KindRoot }

// Append adds blocks at the end of the document.
func (r *Root) Append(blocks ...Block) {
	r.Children = append(r.Children, blocks...)
}

// Last returns the final block or nil when the document is empty.
func (r *Root) Last() Block {
	if r == nil || len(r.Children) == 0 {
		return nil
	}
	return r.Children[len(r.Children)-1]
}

// Clear removes every block.
func (r *Root) Clear() {
	r.Children = nil
}

// Paragraph is the default block.
type Paragraph struct {
	Children []Inline
}

func (*Paragraph) Kind() Kind                      { return KindParagraph }
func (*Paragraph) block()                          {}
func (p *Paragraph) Inlines() []Inline             { return p.Children }
func (p *Paragraph) AppendInlines(nodes ...Inline) { p.Children = append(p.Children, nodes...) }

// IsEmpty reports whether the paragraph has no visible content.
func (p *Paragraph) IsEmpty() bool {
	return p != nil && TextContent(p.Children) == ""
}

// Heading is a level 1..6 section title.
type Heading struct {
	Level    int
	Children []Inline
}

func (*Heading) Kind() Kind                      { return KindHeading }
func (*Heading) block()                          {}
func (h *Heading) Inlines() []Inline             { return h.Children }
func (h *Heading) AppendInlines(nodes ...Inline) { h.Children = append(h.Children, nodes...) }

// Quote is a block quotation. Lines are separated by LineBreak nodes.
type Quote struct {
	Children []Inline
}

func (*Quote) Kind() Kind                      { return KindQuote }
func (*Quote) block()                          {}
func (q *Quote) Inlines() []Inline             { return q.Children }
func (q *Quote) AppendInlines(nodes ...Inline) { q.Children = append(q.Children, nodes...) }

// ListType selects list item markers.
type ListType string

const (
	ListBullet ListType = "bullet"
	ListNumber ListType = "number"
	ListCheck  ListType = "check"
)

// List is an ordered sequence of items. Start is only meaningful for numbered lists.
type List struct {
	Type  ListType
	Start int
	Items []*ListItem
}

func (*List) Kind() Kind { return KindList }
func (*List) block()     {}

// Append adds items at the end of the list.
func (l *List) Append(items ...*ListItem) {
	l.Items = append(l.Items, items...)
}

// LastItem returns the final item or nil.
func (l *List) LastItem() *ListItem {
	if l == nil || len(l.Items) == 0 {
		return nil
	}
	return l.Items[len(l.Items)-1]
}

// LastContentItem walks nested wrapper items and returns the deepest item that
// carries inline content.
func (l *List) LastContentItem() *ListItem {
	item := l.LastItem()
	for item != nil && item.Sublist != nil {
		item = item.Sublist.LastItem()
	}
	return item
}

// ListItem holds inline content, or a nested list when Sublist is set. An item
// with a Sublist is a nesting wrapper and carries no inline content of its own.
type ListItem struct {
	Checked  bool
	Children []Inline
	Sublist  *List
}

func (*ListItem) Kind() Kind                      { return KindListItem }
func (i *ListItem) Inlines() []Inline             { return i.Children }
func (i *ListItem) AppendInlines(nodes ...Inline) { i.Children = append(i.Children, nodes...) }

// Code is a fenced code block. Language is kept verbatim, known or not.
type Code struct {
	Language string
	Text     string
}

func (*Code) Kind() Kind { return KindCode }
func (*Code) block()     {}

// HorizontalRule is a thematic break.
type HorizontalRule struct{}

func (*HorizontalRule) Kind() Kind { return KindHorizontalRule }
func (*HorizontalRule) block()     {}

// Custom is a block produced by a host-defined transformer.
type Custom struct {
	Type     Kind
	Attrs    map[string]string
	Text     string
	Children []Inline
}

func (c *Custom) Kind() Kind                    { return c.Type }
func (*Custom) block()                          {}
func (c *Custom) Inlines() []Inline             { return c.Children }
func (c *Custom) AppendInlines(nodes ...Inline) { c.Children = append(c.Children, nodes...) }

// Text is a run of characters sharing one format set.
type Text struct {
	Text   string
	Format Format
}

func (*Text) Kind() Kind { return KindText }
func (*Text) inline()    {}

// NewText builds a text run.
func NewText(text string, format Format) *Text {
	return &Text{Text: text, Format: format}
}

// LineBreak separates lines inside a block.
type LineBreak struct{}

func (*LineBreak) Kind() Kind { return KindLineBreak }
func (*LineBreak) inline()    {}

// Link wraps inline children with a destination and optional title.
type Link struct {
	URL      string
	Title    string
	Children []Inline
}

func (*Link) Kind() Kind                      { return KindLink }
func (*Link) inline()                         {}
func (l *Link) Inlines() []Inline             { return l.Children }
func (l *Link) AppendInlines(nodes ...Inline) { l.Children = append(l.Children, nodes...) }

// CustomInline is an inline node produced by a host-defined transformer.
type CustomInline struct {
	Type  Kind
	Attrs map[string]string
	Text  string
}

func (c *CustomInline) Kind() Kind { return c.Type }
func (*CustomInline) inline()      {}

// TextContent flattens inline nodes into plain text. Line breaks become "\n".
func TextContent(nodes []Inline) string {
	var b strings.Builder
	writeText(&b, nodes)
	return b.String()
}

func writeText(b *strings.Builder, nodes []Inline) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *Text:
			b.WriteString(n.Text)
		case *LineBreak:
			b.WriteByte('\n')
		case *Link:
			writeText(b, n.Children)
		case *CustomInline:
			b.WriteString(n.Text)
		}
	}
}
