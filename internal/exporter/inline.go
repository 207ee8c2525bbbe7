package exporter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-mdtree/document"
	"github.com/goliatone/go-mdtree/transformers"
)

// renderInline renders nodes, leaving out the formats in base. Markers are
// kept on a stack shared by the runs of the sequence: a marker opens when its
// format first appears and closes, together with everything opened after it,
// once the next node no longer carries the format.
func (e *exporter) renderInline(nodes []document.Inline, base document.Format) string {
	r := &inlineRenderer{exporter: e, base: base}
	nodes = document.MergeText(nodes)
	for i, node := range nodes {
		var next document.Inline
		if i+1 < len(nodes) {
			next = nodes[i+1]
		}
		r.node(node, next)
	}
	r.closeFrom(0)
	return r.out.String()
}

type inlineRenderer struct {
	exporter *exporter
	base     document.Format
	stack    []*transformers.TextFormat
	out      strings.Builder
}

func (r *inlineRenderer) node(node, next document.Inline) {
	switch n := node.(type) {
	case *document.Text:
		r.text(n, r.format(next))
	case *document.LineBreak:
		r.closeFrom(0)
		r.out.WriteByte('\n')
	case *document.Link:
		if !r.match(n, r.format(node), r.format(next)) {
			r.out.WriteString(document.TextContent(n.Children))
		}
	case *document.CustomInline:
		if !r.match(n, 0, r.format(next)) {
			r.out.WriteString(n.Text)
		}
	default:
		if node != nil {
			r.match(node, 0, r.format(next))
		}
	}
}

func (r *inlineRenderer) text(t *document.Text, next document.Format) {
	format := t.Format.Without(r.base)
	lead, core, trail := splitSpace(t.Text)

	r.closeMissing(format)
	r.out.WriteString(lead)
	if core == "" {
		r.out.WriteString(trail)
		return
	}
	r.open(format)
	if format.Has(document.FormatCode) {
		r.out.WriteString(core)
	} else {
		r.out.WriteString(r.exporter.scanner.Escape(core))
	}
	r.closeMissing(next)
	r.out.WriteString(trail)
}

// match renders node through the first text match transformer that accepts
// it. Its children are rendered with the formats already open removed.
func (r *inlineRenderer) match(node document.Inline, format, next document.Format) bool {
	r.closeMissing(format)
	r.open(format)
	inner := r.base.With(format)
	render := func(children []document.Inline) string {
		return r.exporter.renderInline(children, inner)
	}
	for _, tm := range r.exporter.set.Matches {
		if tm.Export == nil {
			continue
		}
		if out, ok := tm.Export(node, render).Get(); ok {
			r.out.WriteString(out)
			r.closeMissing(next)
			return true
		}
	}
	r.exporter.logger.Trace("export.inline.unmatched", "kind", string(node.Kind()))
	return false
}

// format is the set of formats a node contributes to marker decisions. A
// link carries the formats shared by all of its text, minus code formats,
// which cannot wrap a link.
func (r *inlineRenderer) format(node document.Inline) document.Format {
	switch n := node.(type) {
	case *document.Text:
		if strings.TrimSpace(n.Text) == "" {
			return r.openFormats().Intersect(n.Format.Without(r.base))
		}
		return n.Format.Without(r.base)
	case *document.Link:
		return sharedFormat(n.Children).Without(r.base).Without(r.exporter.literal)
	default:
		return 0
	}
}

func sharedFormat(nodes []document.Inline) document.Format {
	var (
		shared document.Format
		seen   bool
	)
	for _, node := range nodes {
		var f document.Format
		switch n := node.(type) {
		case *document.Text:
			f = n.Format
		case *document.Link:
			f = sharedFormat(n.Children)
		default:
			return 0
		}
		if !seen {
			shared, seen = f, true
			continue
		}
		shared = shared.Intersect(f)
	}
	return shared
}

func (r *inlineRenderer) openFormats() document.Format {
	var f document.Format
	for _, tf := range r.stack {
		f = f.With(tf.Format)
	}
	return f
}

// open pushes a marker for every format in f that is not already open.
func (r *inlineRenderer) open(f document.Format) {
	openNow := r.openFormats()
	for _, tf := range r.exporter.formats {
		if f.Has(tf.Format) && !openNow.Has(tf.Format) {
			r.stack = append(r.stack, tf)
			r.out.WriteString(tf.Marker)
			openNow = openNow.With(tf.Format)
		}
	}
}

// closeMissing closes from the first open marker whose format is absent in f.
func (r *inlineRenderer) closeMissing(f document.Format) {
	for i, tf := range r.stack {
		if !f.Has(tf.Format) {
			r.closeFrom(i)
			return
		}
	}
}

func (r *inlineRenderer) closeFrom(i int) {
	for j := len(r.stack) - 1; j >= i; j-- {
		r.out.WriteString(r.stack[j].Marker)
	}
	r.stack = r.stack[:i]
}

func splitSpace(s string) (lead, core, trail string) {
	notSpace := func(r rune) bool { return !unicode.IsSpace(r) }
	start := strings.IndexFunc(s, notSpace)
	if start < 0 {
		return s, "", ""
	}
	end := strings.LastIndexFunc(s, notSpace)
	_, size := utf8.DecodeRuneInString(s[end:])
	return s[:start], s[start : end+size], s[end+size:]
}
