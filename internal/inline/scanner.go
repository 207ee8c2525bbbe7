package inline

import (
	"sort"
	"strings"

	"github.com/goliatone/go-mdtree/document"
	"github.com/goliatone/go-mdtree/transformers"
)

// Scanner converts block text into inline nodes with the text format and text
// match transformers of a set. A Scanner holds no per-call state and may be
// shared.
type Scanner struct {
	set      transformers.Set
	control  map[byte]bool
	formats  []*transformers.TextFormat
	literals []*transformers.TextFormat
	markers  map[byte][]*transformers.TextFormat
}

// New prepares a scanner for set.
func New(set transformers.Set) *Scanner {
	s := &Scanner{
		set:     set,
		control: set.ControlChars(),
		markers: make(map[byte][]*transformers.TextFormat),
	}
	for _, tf := range set.Formats {
		if tf.Marker == "" {
			continue
		}
		s.formats = append(s.formats, tf)
		s.markers[tf.Marker[0]] = append(s.markers[tf.Marker[0]], tf)
		if tf.Literal {
			s.literals = append(s.literals, tf)
		}
	}
	for _, formats := range s.markers {
		sort.SliceStable(formats, func(i, j int) bool {
			return len(formats[i].Marker) > len(formats[j].Marker)
		})
	}
	return s
}

// Import scans text with the transformers of set.
func Import(text string, format document.Format, set transformers.Set) []document.Inline {
	return New(set).Import(text, format)
}

// Import scans text, applying format to every produced run in addition to the
// formats found in the text. Adjacent runs with equal formats are merged.
func (s *Scanner) Import(text string, format document.Format) []document.Inline {
	p := &pass{
		scanner: s,
		text:    text,
		index:   newIndex(s, text),
		slots:   make([]slot, len(s.set.Inline)),
		floor:   make([]int, len(s.set.Inline)),
	}
	return document.MergeText(p.run(format))
}

// candidate is one transformer occurrence found at or after the cursor.
type candidate struct {
	start, end int
	// length is the marker length. It ranks formats that start together.
	length int
	order  int
	format *transformers.TextFormat
	closer int
	match  *transformers.TextMatch
	groups []string
}

func (c candidate) before(other candidate) bool {
	if c.start != other.start {
		return c.start < other.start
	}
	if c.format != nil && other.format != nil && c.length != other.length {
		return c.length > other.length
	}
	return c.order < other.order
}

// slot caches the last lookup for one transformer. A cached result stays
// valid while the cursor has not passed its start.
type slot struct {
	searched bool
	from     int
	found    bool
	c        candidate
}

// pass is the state of one Import call over one text.
type pass struct {
	scanner *Scanner
	text    string
	index   *index
	slots   []slot
	// floor is the lowest start each transformer may use. It moves past
	// text matches whose Import declined.
	floor []int
}

func (p *pass) run(format document.Format) []document.Inline {
	var (
		out        []document.Inline
		cursor     int
		plainStart int
	)
	for cursor < len(p.text) {
		best, ok := p.next(cursor)
		if !ok {
			break
		}

		if best.match != nil {
			node, matched := best.match.Import(best.groups, format, p.scanner.Import).Get()
			if !matched {
				p.floor[best.order] = best.start + 1
				continue
			}
			out = append(out, p.plain(plainStart, best.start, format)...)
			out = append(out, node)
		} else {
			tf := best.format
			out = append(out, p.plain(plainStart, best.start, format)...)
			inner := p.text[best.start+len(tf.Marker) : best.closer]
			if tf.Literal {
				out = append(out, document.NewText(inner, format.With(tf.Format)))
			} else {
				out = append(out, p.scanner.Import(inner, format.With(tf.Format))...)
			}
		}
		cursor, plainStart = best.end, best.end
	}
	return append(out, p.plain(plainStart, len(p.text), format)...)
}

// plain returns the unmatched text between two offsets. The segment holds no
// candidate by construction, so it is only unescaped.
func (p *pass) plain(from, to int, format document.Format) []document.Inline {
	if from >= to {
		return nil
	}
	return []document.Inline{document.NewText(p.scanner.Unescape(p.text[from:to]), format)}
}

func (p *pass) next(cursor int) (candidate, bool) {
	var (
		best  candidate
		found bool
	)
	for i, t := range p.scanner.set.Inline {
		from := max(cursor, p.floor[i])
		sl := &p.slots[i]
		if !sl.searched || from < sl.from || (sl.found && sl.c.start < from) {
			c, ok := p.find(t, i, from)
			*sl = slot{searched: true, from: from, found: ok, c: c}
		}
		if !sl.found {
			continue
		}
		if !found || sl.c.before(best) {
			best, found = sl.c, true
		}
	}
	return best, found
}

func (p *pass) find(t transformers.Transformer, order, from int) (candidate, bool) {
	switch v := t.(type) {
	case *transformers.TextFormat:
		return p.findFormat(v, order, from)
	case *transformers.TextMatch:
		return p.findMatch(v, order, from)
	default:
		return candidate{}, false
	}
}

func (p *pass) findFormat(tf *transformers.TextFormat, order, from int) (candidate, bool) {
	marker := tf.Marker
	for pos := from; pos < len(p.text); {
		idx := strings.Index(p.text[pos:], marker)
		if idx < 0 {
			return candidate{}, false
		}
		open := pos + idx
		if !p.index.validOpener(tf, open) {
			pos = open + 1
			continue
		}
		closer, ok := p.index.findCloser(tf, open+len(marker))
		if !ok {
			pos = open + 1
			continue
		}
		return candidate{
			start:  open,
			end:    closer + len(marker),
			length: len(marker),
			order:  order,
			format: tf,
			closer: closer,
		}, true
	}
	return candidate{}, false
}

func (p *pass) findMatch(tm *transformers.TextMatch, order, from int) (candidate, bool) {
	for from <= len(p.text) {
		loc := tm.Pattern.FindStringSubmatchIndex(p.text[from:])
		if loc == nil {
			return candidate{}, false
		}
		start, end := from+loc[0], from+loc[1]
		if start == end || p.index.escaped(start) {
			from = start + 1
			continue
		}
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = p.text[from+loc[2*g] : from+loc[2*g+1]]
			}
		}
		return candidate{
			start:  start,
			end:    end,
			order:  order,
			match:  tm,
			groups: groups,
		}, true
	}
	return candidate{}, false
}
