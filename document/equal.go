package document

import "maps"

// Equal reports whether two documents are structurally equivalent. Adjacent
// text runs with identical formats are merged and empty runs ignored before
// comparison, so trees that only differ in how text was split compare equal.
func Equal(a, b *Root) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !EqualBlock(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// EqualBlock compares two blocks structurally.
func EqualBlock(a, b Block) bool {
	switch x := a.(type) {
	case *Paragraph:
		y, ok := b.(*Paragraph)
		return ok && EqualInlines(x.Children, y.Children)
	case *Heading:
		y, ok := b.(*Heading)
		return ok && x.Level == y.Level && EqualInlines(x.Children, y.Children)
	case *Quote:
		y, ok := b.(*Quote)
		return ok && EqualInlines(x.Children, y.Children)
	case *List:
		y, ok := b.(*List)
		return ok && equalList(x, y)
	case *Code:
		y, ok := b.(*Code)
		return ok && x.Language == y.Language && x.Text == y.Text
	case *HorizontalRule:
		_, ok := b.(*HorizontalRule)
		return ok
	case *Custom:
		y, ok := b.(*Custom)
		return ok && x.Type == y.Type && x.Text == y.Text &&
			maps.Equal(x.Attrs, y.Attrs) && EqualInlines(x.Children, y.Children)
	default:
		return a == nil && b == nil
	}
}

func equalList(a, b *List) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || len(a.Items) != len(b.Items) {
		return false
	}
	if a.Type == ListNumber && a.Start != b.Start {
		return false
	}
	for i := range a.Items {
		x, y := a.Items[i], b.Items[i]
		if a.Type == ListCheck && x.Checked != y.Checked {
			return false
		}
		if !equalList(x.Sublist, y.Sublist) {
			return false
		}
		if !EqualInlines(x.Children, y.Children) {
			return false
		}
	}
	return true
}

// EqualInlines compares inline sequences after merging adjacent text runs.
func EqualInlines(a, b []Inline) bool {
	a, b = MergeText(a), MergeText(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalInline(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalInline(a, b Inline) bool {
	switch x := a.(type) {
	case *Text:
		y, ok := b.(*Text)
		return ok && x.Text == y.Text && x.Format == y.Format
	case *LineBreak:
		_, ok := b.(*LineBreak)
		return ok
	case *Link:
		y, ok := b.(*Link)
		return ok && x.URL == y.URL && x.Title == y.Title && EqualInlines(x.Children, y.Children)
	case *CustomInline:
		y, ok := b.(*CustomInline)
		return ok && x.Type == y.Type && x.Text == y.Text && maps.Equal(x.Attrs, y.Attrs)
	default:
		return a == nil && b == nil
	}
}

// MergeText returns a copy of nodes where adjacent text runs sharing a format
// are joined and empty runs are dropped. The input slice is not modified.
func MergeText(nodes []Inline) []Inline {
	out := make([]Inline, 0, len(nodes))
	for _, node := range nodes {
		text, ok := node.(*Text)
		if !ok {
			out = append(out, node)
			continue
		}
		if text.Text == "" {
			continue
		}
		if len(out) > 0 {
			if prev, ok := out[len(out)-1].(*Text); ok && prev.Format == text.Format {
				out[len(out)-1] = &Text{Text: prev.Text + text.Text, Format: prev.Format}
				continue
			}
		}
		out = append(out, &Text{Text: text.Text, Format: text.Format})
	}
	return out
}
