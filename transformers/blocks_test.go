package transformers

import (
	"strings"
	"testing"

	"github.com/goliatone/go-mdtree/document"
)

// stubBuilder keeps the appended blocks and turns inline text into a single
// plain run.
type stubBuilder struct {
	blocks []document.Block
}

func (b *stubBuilder) Last() document.Block {
	if len(b.blocks) == 0 {
		return nil
	}
	return b.blocks[len(b.blocks)-1]
}

func (b *stubBuilder) Inline(text string) []document.Inline {
	return []document.Inline{document.NewText(text, 0)}
}

func (b *stubBuilder) feed(t *testing.T, el *Element, line string) {
	t.Helper()
	loc := el.Pattern.FindStringSubmatchIndex(line)
	if loc == nil {
		t.Fatalf("%s: pattern did not match %q", el.Name, line)
	}
	groups := make([]string, len(loc)/2)
	for g := range groups {
		if loc[2*g] >= 0 {
			groups[g] = line[loc[2*g]:loc[2*g+1]]
		}
	}
	block, ok := el.Import(b, Match{Line: line, Groups: groups, Rest: line[loc[1]:]}).Get()
	if !ok {
		t.Fatalf("%s: import declined %q", el.Name, line)
	}
	if block != b.Last() {
		b.blocks = append(b.blocks, block)
	}
}

func render(nodes []document.Inline) string {
	return document.TextContent(nodes)
}

func TestHeadingRoundTrip(t *testing.T) {
	b := &stubBuilder{}
	b.feed(t, Heading, "### Third")

	heading, ok := b.Last().(*document.Heading)
	if !ok || heading.Level != 3 || document.TextContent(heading.Children) != "Third" {
		t.Fatalf("unexpected heading: %+v", b.Last())
	}
	out, ok := Heading.Export(heading, render).Get()
	if !ok || out != "### Third" {
		t.Fatalf("unexpected export %q", out)
	}
	if _, ok := Heading.Export(&document.Paragraph{}, render).Get(); ok {
		t.Fatal("heading export must not claim paragraphs")
	}
}

func TestHeadingExportClampsLevel(t *testing.T) {
	out, _ := Heading.Export(&document.Heading{Level: 9}, render).Get()
	if out != "###### " {
		t.Fatalf("expected level clamped to 6, got %q", out)
	}
}

func TestQuoteMergesConsecutiveLines(t *testing.T) {
	b := &stubBuilder{}
	b.feed(t, Quote, "> one")
	b.feed(t, Quote, "> two")

	if len(b.blocks) != 1 {
		t.Fatalf("expected one quote, got %d blocks", len(b.blocks))
	}
	out, _ := Quote.Export(b.blocks[0], render).Get()
	if out != "> one\n> two" {
		t.Fatalf("unexpected quote export %q", out)
	}
}

func TestListNestingByIndent(t *testing.T) {
	b := &stubBuilder{}
	for _, line := range []string{"- a", "\t- b", "        - c", "- d"} {
		b.feed(t, UnorderedList, line)
	}
	if len(b.blocks) != 1 {
		t.Fatalf("expected a single list, got %d", len(b.blocks))
	}
	list := b.blocks[0].(*document.List)
	if len(list.Items) != 3 {
		t.Fatalf("expected 3 top-level items, got %d", len(list.Items))
	}
	wrapper := list.Items[1]
	if wrapper.Sublist == nil || len(wrapper.Sublist.Items) != 2 {
		t.Fatalf("expected nested list under the second item, got %+v", wrapper)
	}
	deep := wrapper.Sublist.Items[1].Sublist
	if deep == nil || document.TextContent(deep.Items[0].Children) != "c" {
		t.Fatalf("expected third level item c, got %+v", wrapper.Sublist.Items[1])
	}

	out, _ := UnorderedList.Export(list, render).Get()
	want := "- a\n    - b\n        - c\n- d"
	if out != want {
		t.Fatalf("list export mismatch\nwant %q\ngot  %q", want, out)
	}
}

func TestListTypeChangeAtTopLevelStartsNewList(t *testing.T) {
	b := &stubBuilder{}
	b.feed(t, UnorderedList, "- a")
	b.feed(t, OrderedList, "1. b")
	if len(b.blocks) != 2 {
		t.Fatalf("expected two lists, got %d", len(b.blocks))
	}
}

func TestListTypeChangeWhenNestedCreatesSublist(t *testing.T) {
	b := &stubBuilder{}
	b.feed(t, UnorderedList, "- a")
	b.feed(t, UnorderedList, "    - b")
	b.feed(t, OrderedList, "    1. c")

	list := b.blocks[0].(*document.List)
	if len(list.Items) != 3 {
		t.Fatalf("expected bullet sublist and numbered sublist, got %d items", len(list.Items))
	}
	if list.Items[2].Sublist == nil || list.Items[2].Sublist.Type != document.ListNumber {
		t.Fatalf("expected numbered sublist, got %+v", list.Items[2])
	}
}

func TestOrderedListKeepsStart(t *testing.T) {
	b := &stubBuilder{}
	b.feed(t, OrderedList, "3. three")
	b.feed(t, OrderedList, "4. four")

	list := b.blocks[0].(*document.List)
	if list.Type != document.ListNumber || list.Start != 3 {
		t.Fatalf("expected numbered list starting at 3, got %+v", list)
	}
	out, _ := OrderedList.Export(list, render).Get()
	if out != "3. three\n4. four" {
		t.Fatalf("unexpected export %q", out)
	}
}

func TestCheckList(t *testing.T) {
	b := &stubBuilder{}
	b.feed(t, CheckList, "- [x] done")
	b.feed(t, CheckList, "- [ ] todo")

	list := b.blocks[0].(*document.List)
	if list.Type != document.ListCheck || !list.Items[0].Checked || list.Items[1].Checked {
		t.Fatalf("unexpected check list %+v", list)
	}
	out, _ := CheckList.Export(list, render).Get()
	if out != "- [x] done\n- [ ] todo" {
		t.Fatalf("unexpected export %q", out)
	}
}

func TestHorizontalRule(t *testing.T) {
	for _, line := range []string{"---", "***", "___"} {
		if !HorizontalRule.Pattern.MatchString(line) {
			t.Fatalf("expected %q to be a rule", line)
		}
	}
	if HorizontalRule.Pattern.MatchString("--- text") {
		t.Fatal("rule must stand alone on its line")
	}
	out, _ := HorizontalRule.Export(&document.HorizontalRule{}, render).Get()
	if out != "***" {
		t.Fatalf("unexpected export %q", out)
	}
}

func TestIndentDepth(t *testing.T) {
	cases := []struct {
		indent string
		depth  int
	}{
		{"", 0},
		{"   ", 0},
		{"    ", 1},
		{"\t", 1},
		{"  \t", 1},
		{"\t\t", 2},
		{"　　", 1},
	}
	for _, tc := range cases {
		if got := IndentDepth(tc.indent); got != tc.depth {
			t.Fatalf("IndentDepth(%q): expected %d, got %d", tc.indent, tc.depth, got)
		}
	}
}

func TestCodeImport(t *testing.T) {
	cases := []struct {
		name string
		span Span
		lang string
		text string
	}{
		{
			name: "multi-line",
			span: Span{Start: []string{"```go", "```", "go"}, End: []string{"```"}, Lines: []string{"", "a := 1", "", "b := 2", ""}},
			lang: "go",
			text: "a := 1\n\nb := 2",
		},
		{
			name: "single line",
			span: Span{Start: []string{"```", "```", ""}, End: []string{"```"}, Lines: []string{"x"}},
			text: "x",
		},
		{
			name: "single line word",
			span: Span{Start: []string{"```js", "```", "js"}, End: []string{"```"}, Lines: []string{""}},
			text: "js",
		},
		{
			name: "unterminated",
			span: Span{Start: []string{"```sh ", "```", "sh"}, Lines: []string{"ls", "pwd"}},
			lang: "sh",
			text: "ls\npwd",
		},
	}
	for _, tc := range cases {
		code := importCode(tc.span)
		if code.Language != tc.lang || code.Text != tc.text {
			t.Fatalf("%s: expected (%q, %q), got (%q, %q)", tc.name, tc.lang, tc.text, code.Language, code.Text)
		}
	}
}

func TestCodeExport(t *testing.T) {
	out, _ := Code.Export(&document.Code{Language: "javascript", Text: "Code"}, nil).Get()
	if out != "```javascript\nCode\n```" {
		t.Fatalf("unexpected export %q", out)
	}
	out, _ = Code.Export(&document.Code{}, nil).Get()
	if out != "```\n```" {
		t.Fatalf("unexpected empty export %q", out)
	}
}

func TestCodeExportOutgrowsInnerFences(t *testing.T) {
	cases := []struct {
		text  string
		fence string
	}{
		{text: "a `b` c", fence: "```"},
		{text: "```js\nx\n```", fence: "````"},
		{text: "x\n`````", fence: "``````"},
		{text: "~~~", fence: "```"},
	}
	for _, tc := range cases {
		out, _ := Code.Export(&document.Code{Language: "md", Text: tc.text}, nil).Get()
		want := tc.fence + "md\n" + tc.text + "\n" + tc.fence
		if out != want {
			t.Fatalf("export %q: expected %q, got %q", tc.text, want, out)
		}
	}
}

func TestCodeFenceCloses(t *testing.T) {
	cases := []struct {
		open, end string
		want      bool
	}{
		{open: "```", end: "```", want: true},
		{open: "```", end: "`````", want: true},
		{open: "````", end: "```", want: false},
		{open: "~~~", end: "~~~~", want: true},
		{open: "~~~", end: "```", want: false},
		{open: "```", end: "~~~", want: false},
	}
	for _, tc := range cases {
		start := Code.Start.FindStringSubmatch(tc.open)
		end := Code.End.FindStringSubmatch(tc.end)
		if start == nil || end == nil {
			t.Fatalf("expected %q and %q to match the fence patterns", tc.open, tc.end)
		}
		if got := Code.Closes(start, end); got != tc.want {
			t.Fatalf("%q closed by %q: expected %v, got %v", tc.open, tc.end, tc.want, got)
		}
	}
}

func TestLinkTitleEscaping(t *testing.T) {
	m := Link.Pattern.FindStringSubmatch(`[Hello](https://lexical.dev "Title with \" escaped character")`)
	if m == nil {
		t.Fatal("expected link pattern to match")
	}
	scan := func(text string, format document.Format) []document.Inline {
		return []document.Inline{document.NewText(text, format)}
	}
	node, ok := Link.Import(m, 0, scan).Get()
	if !ok {
		t.Fatal("expected link import")
	}
	link := node.(*document.Link)
	if link.Title != `Title with " escaped character` || link.URL != "https://lexical.dev" {
		t.Fatalf("unexpected link %+v", link)
	}
	out, _ := Link.Export(link, render).Get()
	if !strings.Contains(out, `"Title with \" escaped character"`) {
		t.Fatalf("expected re-escaped title, got %q", out)
	}
}

func TestLinkTitleBackslashRoundTrip(t *testing.T) {
	scan := func(text string, format document.Format) []document.Inline {
		return []document.Inline{document.NewText(text, format)}
	}
	for _, title := range []string{`a\`, `C:\dir\"x"`, `\\`} {
		link := &document.Link{URL: "u", Title: title, Children: scan("t", 0)}
		out, _ := Link.Export(link, render).Get()
		m := Link.Pattern.FindStringSubmatch(out)
		if m == nil || m[0] != out {
			t.Fatalf("title %q: exported %q no longer matches the link pattern", title, out)
		}
		node, ok := Link.Import(m, 0, scan).Get()
		if !ok || node.(*document.Link).Title != title {
			t.Fatalf("title %q: round trip through %q gave %+v", title, out, node)
		}
	}
}
