package inline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Unescape resolves backslash escapes of control characters. Any other
// backslash sequence is kept verbatim.
func (s *Scanner) Unescape(text string) string {
	if strings.IndexByte(text, '\\') < 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '\\' && i+1 < len(text) && s.control[text[i+1]] {
			b.WriteByte(text[i+1])
			i++
			continue
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

// Escape prepares a plain text run for export so that importing the result
// yields the same text. Marker characters are escaped where a marker could
// open or close, text match leads where their pattern matches, and
// backslashes where they precede a control character or end the run.
func (s *Scanner) Escape(text string) string {
	leads := s.leadPositions(text)
	var b strings.Builder
	b.Grow(len(text) + 8)
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\\':
			if i+1 == len(text) || s.control[text[i+1]] {
				b.WriteByte('\\')
			}
		case leads[i]:
			b.WriteByte('\\')
		case len(s.markers[c]) > 0 && s.markerAmbiguous(text, i):
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// IsControl reports whether c carries inline meaning for the scanner.
func (s *Scanner) IsControl(c byte) bool {
	return s.control[c]
}

func (s *Scanner) leadPositions(text string) map[int]bool {
	var leads map[int]bool
	for _, tm := range s.set.Matches {
		if tm.Lead == 0 || strings.IndexByte(text, tm.Lead) < 0 {
			continue
		}
		for _, loc := range tm.Pattern.FindAllStringIndex(text, -1) {
			if loc[0] < len(text) && text[loc[0]] == tm.Lead {
				if leads == nil {
					leads = make(map[int]bool)
				}
				leads[loc[0]] = true
			}
		}
	}
	return leads
}

// markerAmbiguous reports whether the marker character at i could take part in
// a marker once the run is placed between other runs and markers.
func (s *Scanner) markerAmbiguous(text string, i int) bool {
	if i == 0 || i == len(text)-1 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:i])
	next, _ := utf8.DecodeRuneInString(text[i+1:])
	if unicode.IsSpace(prev) && unicode.IsSpace(next) {
		return false
	}
	formats := s.markers[text[i]]
	intraword := false
	for _, tf := range formats {
		intraword = intraword || tf.Intraword
	}
	if !intraword && isWord(prev) && isWord(next) {
		return false
	}
	rest := text[i:]
	for _, tf := range formats {
		if strings.HasPrefix(rest, tf.Marker) || strings.HasPrefix(tf.Marker, rest) {
			return true
		}
	}
	return false
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordBefore(text string, pos int) bool {
	if pos <= 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return isWord(r)
}

func wordAfter(text string, pos int) bool {
	if pos >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return isWord(r)
}

func spaceBefore(text string, pos int) bool {
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return unicode.IsSpace(r)
}

func spaceAfter(text string, pos int) bool {
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return unicode.IsSpace(r)
}
