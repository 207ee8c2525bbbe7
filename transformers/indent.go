package transformers

import "github.com/mattn/go-runewidth"

// IndentWidth measures leading whitespace in columns. Tabs advance to the next
// multiple of ListIndentSize; other runes count their display width.
func IndentWidth(indent string) int {
	column := 0
	for _, ru := range indent {
		if ru == '\t' {
			column += ListIndentSize - (column % ListIndentSize)
			continue
		}
		width := runewidth.RuneWidth(ru)
		if width < 1 {
			width = 1
		}
		column += width
	}
	return column
}

// IndentDepth converts leading whitespace into a list nesting level.
func IndentDepth(indent string) int {
	return IndentWidth(indent) / ListIndentSize
}
