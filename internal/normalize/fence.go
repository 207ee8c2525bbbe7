package normalize

import "strings"

const minFenceLength = 3

// Fence describes a line that opens a fenced region.
type Fence struct {
	Char   byte
	Length int
	Info   string
	// SingleLine is set when the same line also closes the fence.
	SingleLine bool
}

// ParseFence recognises a run of three or more backticks or tildes after
// optional leading spaces or tabs.
func ParseFence(line string) (Fence, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || (trimmed[0] != '`' && trimmed[0] != '~') {
		return Fence{}, false
	}
	ch := trimmed[0]
	n := runLength(trimmed, ch)
	if n < minFenceLength {
		return Fence{}, false
	}

	info := trimmed[n:]
	fence := Fence{Char: ch, Length: n, Info: strings.TrimSpace(info)}
	body := strings.TrimRight(info, " \t\r")
	if tail := trailingRun(body, ch); tail >= minFenceLength && tail < len(body) {
		fence.SingleLine = true
		fence.Info = ""
		return fence, true
	}
	if ch == '`' && strings.IndexByte(info, '`') >= 0 {
		// Backtick info strings cannot contain backticks.
		return Fence{}, false
	}
	return fence, true
}

// ClosedBy reports whether line closes the fence: only the fence character,
// repeated at least as many times as the opener, with optional surrounding
// whitespace.
func (f Fence) ClosedBy(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < f.Length {
		return false
	}
	return runLength(trimmed, f.Char) == len(trimmed)
}

func runLength(s string, ch byte) int {
	n := 0
	for n < len(s) && s[n] == ch {
		n++
	}
	return n
}

func trailingRun(s string, ch byte) int {
	n := 0
	for n < len(s) && s[len(s)-1-n] == ch {
		n++
	}
	return n
}
