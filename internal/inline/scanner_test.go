package inline

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-mdtree/document"
	"github.com/goliatone/go-mdtree/transformers"
)

const (
	bold   = document.FormatBold
	italic = document.FormatItalic
	code   = document.FormatCode
	strike = document.FormatStrikethrough
)

func defaultScanner() *Scanner {
	return New(transformers.Group(transformers.Defaults()))
}

func text(s string, f document.Format) *document.Text {
	return document.NewText(s, f)
}

func assertInlines(t *testing.T, input string, got []document.Inline, want ...document.Inline) {
	t.Helper()
	if !document.EqualInlines(got, want) {
		t.Fatalf("import %q\nwant %s\ngot  %s", input, describe(want), describe(got))
	}
}

func describe(nodes []document.Inline) string {
	out := "["
	for i, node := range nodes {
		if i > 0 {
			out += " "
		}
		switch n := node.(type) {
		case *document.Text:
			out += "(" + n.Format.String() + ")" + `"` + n.Text + `"`
		case *document.Link:
			out += "link<" + n.URL + ">" + describe(n.Children)
		default:
			out += string(node.Kind())
		}
	}
	return out + "]"
}

func TestImportNestedEmphasis(t *testing.T) {
	input := "*Hello **world**!*"
	assertInlines(t, input, defaultScanner().Import(input, 0),
		text("Hello ", italic),
		text("world", italic|bold),
		text("!", italic),
	)
}

func TestImportTable(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []document.Inline
	}{
		{"plain", "just text", []document.Inline{text("just text", 0)}},
		{"bold", "a **b** c", []document.Inline{text("a ", 0), text("b", bold), text(" c", 0)}},
		{"bold underscore", "__b__", []document.Inline{text("b", bold)}},
		{"bold italic", "***x***", []document.Inline{text("x", bold|italic)}},
		{"closer shares run", "**a *b***", []document.Inline{text("a ", bold), text("b", bold|italic)}},
		{"strikethrough", "~~gone~~", []document.Inline{text("gone", strike)}},
		{"highlight", "==mark==", []document.Inline{text("mark", document.FormatHighlight)}},
		{"intraword star", "a*b*c", []document.Inline{text("a", 0), text("b", italic), text("c", 0)}},
		{"intraword underscore", "snake_case_name", []document.Inline{text("snake_case_name", 0)}},
		{"unmatched opener", "*a", []document.Inline{text("*a", 0)}},
		{"spaced markers", "a * b *", []document.Inline{text("a * b *", 0)}},
		{"escaped markers", `\*not italic\*`, []document.Inline{text("*not italic*", 0)}},
		{"other backslash", `C:\path`, []document.Inline{text(`C:\path`, 0)}},
		{"code", "use `x*y` here", []document.Inline{text("use ", 0), text("x*y", code), text(" here", 0)}},
		{"code keeps backslash", "`a\\*b`", []document.Inline{text(`a\*b`, code)}},
		{"backtick runs must match", "``a`b``", []document.Inline{text("``a`b``", 0)}},
		{"code inside italic", "*a `b*` c*", []document.Inline{text("a ", italic), text("b*", italic|code), text(" c", italic)}},
	}
	s := defaultScanner()
	for _, tc := range cases {
		got := s.Import(tc.input, 0)
		if !document.EqualInlines(got, tc.want) {
			t.Fatalf("%s: import %q\nwant %s\ngot  %s", tc.name, tc.input, describe(tc.want), describe(got))
		}
	}
}

func TestImportInheritsFormat(t *testing.T) {
	input := "a *b*"
	assertInlines(t, input, defaultScanner().Import(input, bold),
		text("a ", bold),
		text("b", bold|italic),
	)
}

func TestImportLinkWithEscapedTitle(t *testing.T) {
	input := `[Hello](https://lexical.dev "Title with \" escaped character") world`
	got := defaultScanner().Import(input, 0)
	if len(got) != 2 {
		t.Fatalf("expected link and text, got %s", describe(got))
	}
	link, ok := got[0].(*document.Link)
	if !ok {
		t.Fatalf("expected link first, got %s", describe(got))
	}
	if link.URL != "https://lexical.dev" || link.Title != `Title with " escaped character` {
		t.Fatalf("unexpected link %+v", link)
	}
	assertInlines(t, input, link.Children, text("Hello", 0))
	assertInlines(t, input, got[1:], text(" world", 0))
}

func TestImportFormattedLink(t *testing.T) {
	input := "**[a](u)**"
	got := defaultScanner().Import(input, 0)
	if len(got) != 1 {
		t.Fatalf("expected a single link, got %s", describe(got))
	}
	link, ok := got[0].(*document.Link)
	if !ok {
		t.Fatalf("expected link, got %s", describe(got))
	}
	assertInlines(t, input, link.Children, text("a", bold))
}

func TestImportEscapedLinkStaysText(t *testing.T) {
	input := `\[a](u)`
	assertInlines(t, input, defaultScanner().Import(input, 0), text("[a](u)", 0))
}

func TestImportDeclinedMatchFallsThrough(t *testing.T) {
	mention := &transformers.TextMatch{
		Name:    "mention",
		Pattern: regexp.MustCompile(`@(\w+)`),
		Lead:    '@',
		Import: func(groups []string, _ document.Format, _ transformers.ScanFunc) transformers.Result[document.Inline] {
			if groups[1] == "skip" {
				return transformers.NoMatch[document.Inline]()
			}
			return transformers.Matched[document.Inline](&document.CustomInline{Type: "mention", Text: groups[1]})
		},
	}
	s := New(transformers.Group([]transformers.Transformer{mention}))
	got := s.Import("@skip @bob", 0)
	if len(got) != 2 {
		t.Fatalf("expected text and mention, got %s", describe(got))
	}
	assertInlines(t, "@skip @bob", got[:1], text("@skip ", 0))
	m, ok := got[1].(*document.CustomInline)
	if !ok || m.Text != "bob" {
		t.Fatalf("expected mention of bob, got %s", describe(got))
	}
}

func TestImportPrefersEarlierRegisteredOnTie(t *testing.T) {
	first := &transformers.TextFormat{Marker: "^", Format: document.FormatSuperscript, Intraword: true}
	second := &transformers.TextFormat{Marker: "^", Format: document.FormatSubscript, Intraword: true}
	s := New(transformers.Group([]transformers.Transformer{first, second}))
	assertInlines(t, "^x^", s.Import("^x^", 0), text("x", document.FormatSuperscript))
}

func TestImportPrefersEarlierRegisteredMatchOverLongerMatch(t *testing.T) {
	mention := func(name, pattern string) *transformers.TextMatch {
		return &transformers.TextMatch{
			Name:    name,
			Pattern: regexp.MustCompile(pattern),
			Lead:    '@',
			Import: func(groups []string, _ document.Format, _ transformers.ScanFunc) transformers.Result[document.Inline] {
				return transformers.Matched[document.Inline](&document.CustomInline{Type: document.Kind(name), Text: groups[0]})
			},
		}
	}
	s := New(transformers.Group([]transformers.Transformer{
		mention("short", `@\w`),
		mention("long", `@\w+`),
	}))
	for range 3 {
		got := s.Import("@bob", 0)
		if len(got) != 2 {
			t.Fatalf("expected mention and text, got %s", describe(got))
		}
		m, ok := got[0].(*document.CustomInline)
		if !ok || m.Type != "short" || m.Text != "@b" {
			t.Fatalf("expected the first registered match to win, got %s", describe(got))
		}
		assertInlines(t, "@bob", got[1:], text("ob", 0))
	}
}

func TestImportScalesLinearly(t *testing.T) {
	units := []string{"*a ", "**a *b ~~c ", "*a _b **c ~~d `e "}
	for _, unit := range units {
		small := importTime(t, strings.Repeat(unit, 2000))
		large := importTime(t, strings.Repeat(unit, 8000))
		// Four times the input. Quadratic scanning would take about sixteen
		// times as long.
		if large > 10*small+20*time.Millisecond {
			t.Fatalf("unit %q: 4x input took %s against %s", unit, large, small)
		}
	}
}

func importTime(t *testing.T, input string) time.Duration {
	t.Helper()
	s := defaultScanner()
	best := time.Duration(-1)
	for range 3 {
		start := time.Now()
		got := s.Import(input, 0)
		elapsed := time.Since(start)
		if document.TextContent(got) == "" {
			t.Fatalf("expected text content to survive")
		}
		if best < 0 || elapsed < best {
			best = elapsed
		}
	}
	return best
}
