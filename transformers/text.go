package transformers

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-mdtree/document"
)

// Text format transformers. Multi-character markers precede their prefixes so
// "***" is tried before "**" and "*" when two candidates start together.
var (
	InlineCode           = &TextFormat{Marker: "`", Format: document.FormatCode, Intraword: true, Literal: true}
	Highlight            = &TextFormat{Marker: "==", Format: document.FormatHighlight, Intraword: true}
	BoldItalicStar       = &TextFormat{Marker: "***", Format: document.FormatBold | document.FormatItalic, Intraword: true}
	BoldItalicUnderscore = &TextFormat{Marker: "___", Format: document.FormatBold | document.FormatItalic}
	BoldStar             = &TextFormat{Marker: "**", Format: document.FormatBold, Intraword: true}
	BoldUnderscore       = &TextFormat{Marker: "__", Format: document.FormatBold}
	Strikethrough        = &TextFormat{Marker: "~~", Format: document.FormatStrikethrough, Intraword: true}
	ItalicStar           = &TextFormat{Marker: "*", Format: document.FormatItalic, Intraword: true}
	ItalicUnderscore     = &TextFormat{Marker: "_", Format: document.FormatItalic}
)

var (
	linkTitleEscape   = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	linkTitleUnescape = strings.NewReplacer(`\\`, `\`, `\"`, `"`)
)

// Link handles [text](url) and [text](url "title"). The link text is scanned
// again for formatting with the surrounding format inherited.
var Link = &TextMatch{
	Name:         "link",
	Pattern:      regexp.MustCompile(`\[([^\[\]]+)\]\(([^()\s]+)(?:\s"((?:[^"\\]|\\.)*)"\s*)?\)`),
	Lead:         '[',
	Dependencies: []document.Kind{document.KindLink},
	Import: func(groups []string, format document.Format, scan ScanFunc) Result[document.Inline] {
		return Matched[document.Inline](&document.Link{
			URL:      groups[2],
			Title:    linkTitleUnescape.Replace(group(groups, 3)),
			Children: scan(groups[1], format),
		})
	},
	Export: func(node document.Inline, render RenderInline) Result[string] {
		link, ok := node.(*document.Link)
		if !ok {
			return NoMatch[string]()
		}
		title := ""
		if link.Title != "" {
			title = ` "` + linkTitleEscape.Replace(link.Title) + `"`
		}
		return Matched("[" + render(link.Children) + "](" + link.URL + title + ")")
	},
}
