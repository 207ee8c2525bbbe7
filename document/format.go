package document

import "strings"

// Format is the bit set of text formats applied to a Text run.
type Format uint16

const (
	FormatBold Format = 1 << iota
	FormatItalic
	FormatStrikethrough
	FormatUnderline
	FormatCode
	FormatSubscript
	FormatSuperscript
	FormatHighlight
)

var formatNames = []struct {
	format Format
	name   string
}{
	{FormatBold, "bold"},
	{FormatItalic, "italic"},
	{FormatStrikethrough, "strikethrough"},
	{FormatUnderline, "underline"},
	{FormatCode, "code"},
	{FormatSubscript, "subscript"},
	{FormatSuperscript, "superscript"},
	{FormatHighlight, "highlight"},
}

// Has reports whether every bit of other is set. The zero format is never "had".
func (f Format) Has(other Format) bool {
	return other != 0 && f&other == other
}

// With returns the union of both formats.
func (f Format) With(other Format) Format {
	return f | other
}

// Without clears the bits of other.
func (f Format) Without(other Format) Format {
	return f &^ other
}

// Intersect keeps the bits set in both formats.
func (f Format) Intersect(other Format) Format {
	return f & other
}

// String lists the format names joined by "+", or "plain".
func (f Format) String() string {
	if f == 0 {
		return "plain"
	}
	parts := make([]string, 0, len(formatNames))
	for _, entry := range formatNames {
		if f.Has(entry.format) {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, "+")
}
