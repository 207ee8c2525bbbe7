package normalize

import (
	"regexp"
	"strings"
)

// Normalize merges soft-wrapped lines. Two adjacent non-blank lines are joined
// into one unless either of them (or their concatenation) starts a block,
// opens or closes a fence, or is a table row. Lines inside a fenced region are
// passed through unchanged, blank lines included. Normalize is idempotent.
func Normalize(text string, blockStarts []*regexp.Regexp) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	var open *Fence
	for _, line := range lines {
		if open != nil {
			out = append(out, line)
			if open.ClosedBy(line) {
				open = nil
			}
			continue
		}

		if fence, ok := ParseFence(line); ok {
			if !fence.SingleLine {
				open = &fence
			}
			out = append(out, line)
			continue
		}

		if len(out) == 0 {
			out = append(out, line)
			continue
		}

		last := out[len(out)-1]
		if isBoundary(last, blockStarts) || isBoundary(line, blockStarts) || isBoundary(last+line, blockStarts) {
			out = append(out, line)
			continue
		}
		out[len(out)-1] = last + line
	}
	return strings.Join(out, "\n")
}

// isBoundary reports lines that never take part in a merge.
func isBoundary(line string, blockStarts []*regexp.Regexp) bool {
	if IsBlank(line) || IsTableRow(line) {
		return true
	}
	if _, ok := ParseFence(line); ok {
		return true
	}
	for _, re := range blockStarts {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// IsBlank reports whether line holds only whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// IsTableRow reports whether the first non-space character is a pipe.
func IsTableRow(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "|")
}
