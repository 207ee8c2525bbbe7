package inline

import (
	"strings"

	"github.com/goliatone/go-mdtree/transformers"
)

const none = -1

// index holds the marker lookups of one text. Every table is filled right to
// left in a single sweep, so closer searches during a pass are table reads and
// a pass stays linear in the text length.
type index struct {
	text string
	// slashes counts the backslashes directly before each offset.
	slashes []int32
	// runStart and runEnd bound the run of equal bytes around each offset.
	runStart []int32
	runEnd   []int32
	// literal and nested hold the end of a complete span opening at each
	// offset, or none.
	literal []int32
	nested  []int32
	// closer holds, per format, the first valid closer at or after each
	// offset once code spans and nested formats are skipped.
	closer map[*transformers.TextFormat][]int32
}

func newIndex(s *Scanner, text string) *index {
	n := len(text)
	x := &index{
		text:     text,
		slashes:  make([]int32, n+1),
		runStart: make([]int32, n+1),
		runEnd:   make([]int32, n+1),
		literal:  make([]int32, n+1),
		nested:   make([]int32, n+1),
		closer:   make(map[*transformers.TextFormat][]int32, len(s.formats)),
	}
	for i := 1; i <= n; i++ {
		if text[i-1] == '\\' {
			x.slashes[i] = x.slashes[i-1] + 1
		}
	}
	for i := 0; i < n; i++ {
		x.runStart[i] = int32(i)
		if i > 0 && text[i-1] == text[i] {
			x.runStart[i] = x.runStart[i-1]
		}
	}
	x.runEnd[n] = int32(n)
	for i := n - 1; i >= 0; i-- {
		x.runEnd[i] = int32(i + 1)
		if i+1 < n && text[i+1] == text[i] {
			x.runEnd[i] = x.runEnd[i+1]
		}
	}
	for _, tf := range s.formats {
		table := make([]int32, n+1)
		table[n] = none
		x.closer[tf] = table
	}
	x.literal[n], x.nested[n] = none, none

	for pos := n - 1; pos >= 0; pos-- {
		x.literal[pos] = none
		for _, lit := range s.literals {
			if end, ok := x.spanAt(lit, pos); ok {
				x.literal[pos] = int32(end)
				break
			}
		}
		x.nested[pos] = none
		for _, tf := range s.markers[text[pos]] {
			if tf.Literal {
				continue
			}
			if end, ok := x.spanAt(tf, pos); ok {
				x.nested[pos] = int32(end)
				break
			}
		}
		for _, tf := range s.formats {
			x.closer[tf][pos] = x.closerAt(tf, pos)
		}
	}
	return x
}

// closerAt walks from pos the way a closer search does: code spans are
// skipped, a valid closer stops the walk, and complete nested formats are
// skipped.
func (x *index) closerAt(tf *transformers.TextFormat, pos int) int32 {
	table := x.closer[tf]
	if !tf.Literal {
		if end := x.literal[pos]; end != none {
			return table[end]
		}
	}
	if strings.HasPrefix(x.text[pos:], tf.Marker) && x.validCloser(tf, pos) {
		return int32(pos)
	}
	if !tf.Literal {
		if end := x.nested[pos]; end != none {
			return table[end]
		}
	}
	return table[pos+1]
}

// findCloser returns the first valid closing marker after from. Code spans and
// complete nested formats in between are skipped, so a closer always belongs
// to the innermost open format.
func (x *index) findCloser(tf *transformers.TextFormat, from int) (int, bool) {
	if from >= len(x.text) {
		return 0, false
	}
	next := from + 1
	if !tf.Literal {
		if end := x.literal[from]; end != none {
			next = int(end)
		} else if end := x.nested[from]; end != none {
			next = int(end)
		}
	}
	pos := x.closer[tf][next]
	if pos == none {
		return 0, false
	}
	return int(pos), true
}

func (x *index) spanAt(tf *transformers.TextFormat, pos int) (int, bool) {
	if !strings.HasPrefix(x.text[pos:], tf.Marker) || !x.validOpener(tf, pos) {
		return 0, false
	}
	closer, ok := x.findCloser(tf, pos+len(tf.Marker))
	if !ok {
		return 0, false
	}
	return closer + len(tf.Marker), true
}

func (x *index) escaped(pos int) bool {
	return x.slashes[pos]%2 == 1
}

// markerRun returns the bounds of the run around pos. An escaped first
// character is not part of the run.
func (x *index) markerRun(pos int) (int, int) {
	start, end := int(x.runStart[pos]), int(x.runEnd[pos])
	if start < pos && x.escaped(start) {
		start++
	}
	return start, end
}

// validOpener accepts a marker that starts an unescaped run of its character
// and is followed by non-space text. Literal markers must make up the whole run.
func (x *index) validOpener(tf *transformers.TextFormat, pos int) bool {
	text := x.text
	after := pos + len(tf.Marker)
	if after >= len(text) || x.escaped(pos) || spaceAfter(text, after) {
		return false
	}
	start, end := x.markerRun(pos)
	if pos != start || (tf.Literal && end != after) {
		return false
	}
	return tf.Intraword || !(wordBefore(text, start) && wordAfter(text, end))
}

// validCloser accepts a marker inside a run of its character when the run
// follows non-space text. Literal closers ignore backslashes and must make up
// the whole run.
func (x *index) validCloser(tf *transformers.TextFormat, pos int) bool {
	text := x.text
	if pos == 0 {
		return false
	}
	if tf.Literal {
		after := pos + len(tf.Marker)
		c := tf.Marker[0]
		return text[pos-1] != c && (after == len(text) || text[after] != c) && !spaceBefore(text, pos)
	}
	if x.escaped(pos) {
		return false
	}
	start, end := x.markerRun(pos)
	if start == 0 || spaceBefore(text, start) {
		return false
	}
	return tf.Intraword || !(wordBefore(text, start) && wordAfter(text, end))
}
