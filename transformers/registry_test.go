package transformers

import (
	"regexp"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-mdtree/document"
)

func TestGroupKeepsOrderPerVariant(t *testing.T) {
	set := Group(Defaults())

	if len(set.Elements) != 4 || set.Elements[0] != Heading || set.Elements[3] != OrderedList {
		t.Fatalf("unexpected elements: %+v", set.Elements)
	}
	if len(set.Multiline) != 1 || set.Multiline[0] != Code {
		t.Fatalf("unexpected multiline elements: %+v", set.Multiline)
	}
	if len(set.Formats) != 9 || set.Formats[0] != InlineCode {
		t.Fatalf("unexpected formats: %d", len(set.Formats))
	}
	if len(set.Matches) != 1 || set.Matches[0] != Link {
		t.Fatalf("unexpected matches: %+v", set.Matches)
	}
	if len(set.Inline) != len(set.Formats)+len(set.Matches) {
		t.Fatalf("expected inline list to interleave formats and matches, got %d", len(set.Inline))
	}
	if set.Inline[len(set.Inline)-1] != Link {
		t.Fatal("expected link to keep its trailing position")
	}
}

func TestGroupSkipsNilEntries(t *testing.T) {
	var nilElement *Element
	set := Group([]Transformer{nil, nilElement, Heading})
	if len(set.Elements) != 1 {
		t.Fatalf("expected one element, got %d", len(set.Elements))
	}
}

func TestExportFormatsKeepsFirstSingleFormat(t *testing.T) {
	formats := Group(Defaults()).ExportFormats()

	want := []*TextFormat{InlineCode, BoldStar, Highlight, ItalicStar, Strikethrough}
	if len(formats) != len(want) {
		t.Fatalf("expected %d export formats, got %d", len(want), len(formats))
	}
	for i, tf := range want {
		if formats[i] != tf {
			t.Fatalf("export format %d: expected %q, got %q", i, tf.Marker, formats[i].Marker)
		}
	}
}

func TestControlChars(t *testing.T) {
	chars := Group(Defaults()).ControlChars()
	for _, c := range []byte{'\\', '*', '_', '~', '=', '`', '['} {
		if !chars[c] {
			t.Fatalf("expected %q to be a control char", c)
		}
	}
	if chars['#'] {
		t.Fatal("block markers are not inline control chars")
	}
}

func TestBlockStartsListsElementsThenMultiline(t *testing.T) {
	starts := Group(Defaults()).BlockStarts()
	if len(starts) != 5 {
		t.Fatalf("expected 5 block starts, got %d", len(starts))
	}
	if starts[4] != Code.Start {
		t.Fatal("expected code start pattern last")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := Validate(Defaults(), nil); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if err := Validate(Extended(), nil); err != nil {
		t.Fatalf("expected extended set to validate, got %v", err)
	}
}

func TestValidateReportsMissingDependency(t *testing.T) {
	kinds := document.NewKinds(document.KindParagraph, document.KindText)
	err := Validate([]Transformer{Link}, kinds)
	if err == nil {
		t.Fatal("expected missing link kind to fail validation")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestValidateAcceptsRegisteredCustomKind(t *testing.T) {
	mention := &TextMatch{
		Name:         "mention",
		Pattern:      regexp.MustCompile(`@(\w+)`),
		Dependencies: []document.Kind{"mention"},
		Import: func(groups []string, _ document.Format, _ ScanFunc) Result[document.Inline] {
			return Matched[document.Inline](&document.CustomInline{Type: "mention", Text: groups[0]})
		},
	}
	kinds := document.DefaultKinds()
	if err := Validate([]Transformer{mention}, kinds); err == nil {
		t.Fatal("expected unregistered custom kind to fail")
	}
	kinds.Register("mention")
	if err := Validate([]Transformer{mention}, kinds); err != nil {
		t.Fatalf("expected registered custom kind to pass, got %v", err)
	}
}

func TestValidateRejectsMalformedTransformers(t *testing.T) {
	var nilFormat *TextFormat
	cases := map[string]Transformer{
		"nil":            nil,
		"nil format":     nilFormat,
		"no marker":      &TextFormat{Format: document.FormatBold},
		"no pattern":     &Element{Name: "broken"},
		"no start":       &MultilineElement{Name: "broken"},
		"no match input": &TextMatch{Name: "broken", Pattern: regexp.MustCompile(`x`)},
	}
	for name, tr := range cases {
		err := Validate([]Transformer{tr}, nil)
		if err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
		if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("%s: expected validation category, got %v", name, err)
		}
	}
}

func TestResult(t *testing.T) {
	if _, ok := NoMatch[string]().Get(); ok {
		t.Fatal("expected NoMatch to report no match")
	}
	value, ok := Matched("").Get()
	if !ok || value != "" {
		t.Fatal("expected empty string to be a legitimate match")
	}
	if !Matched(0).IsMatched() {
		t.Fatal("expected zero value match")
	}
}
