package transformers

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-mdtree/document"
)

// Code handles fenced code blocks. The language tag is stored verbatim. A
// fence closes on a run of the same character at least as long as its opener.
var Code = &MultilineElement{
	Name:         "code",
	Start:        regexp.MustCompile("^[ \\t]*(`{3,}|~{3,})([\\w-]+)?[ \\t]?"),
	End:          regexp.MustCompile("[ \\t]*(`{3,}|~{3,})$"),
	Closes:       closesFence,
	Dependencies: []document.Kind{document.KindCode},
	Import: func(_ Builder, span Span) Result[document.Block] {
		return Matched[document.Block](importCode(span))
	},
	Export: func(block document.Block, _ RenderInline) Result[string] {
		code, ok := block.(*document.Code)
		if !ok {
			return NoMatch[string]()
		}
		body := ""
		if code.Text != "" {
			body = "\n" + code.Text
		}
		fence := strings.Repeat("`", max(3, longestRun(code.Text, '`')+1))
		return Matched(fence + code.Language + body + "\n" + fence)
	},
}

func closesFence(start, end []string) bool {
	open, closing := group(start, 1), group(end, 1)
	return open != "" && closing != "" && closing[0] == open[0] && len(closing) >= len(open)
}

func longestRun(s string, c byte) int {
	longest, n := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != c {
			n = 0
			continue
		}
		n++
		longest = max(longest, n)
	}
	return longest
}

func importCode(span Span) *document.Code {
	language := group(span.Start, 2)

	if len(span.Lines) == 1 {
		line := span.Lines[0]
		if span.Terminated() {
			// Fence opened and closed on one line: whatever followed the
			// backticks, language-like or not, is the code.
			opener := strings.TrimLeft(strings.TrimLeft(group(span.Start, 0), " \t"), group(span.Start, 1))
			return &document.Code{Text: strings.TrimSpace(opener + line)}
		}
		return &document.Code{Language: language, Text: strings.TrimPrefix(line, " ")}
	}

	lines := append([]string(nil), span.Lines...)
	if strings.TrimSpace(lines[0]) == "" {
		for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
			lines = lines[1:]
		}
	} else {
		lines[0] = strings.TrimPrefix(lines[0], " ")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return &document.Code{Language: language, Text: strings.Join(lines, "\n")}
}
