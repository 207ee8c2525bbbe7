package transformers

// ElementTransformers returns the default single-line block transformers.
func ElementTransformers() []Transformer {
	return []Transformer{Heading, Quote, UnorderedList, OrderedList}
}

// MultilineElementTransformers returns the default multi-line block transformers.
func MultilineElementTransformers() []Transformer {
	return []Transformer{Code}
}

// TextFormatTransformers returns the default text formats in precedence order.
func TextFormatTransformers() []Transformer {
	return []Transformer{
		InlineCode,
		BoldItalicStar,
		BoldItalicUnderscore,
		BoldStar,
		BoldUnderscore,
		Highlight,
		ItalicStar,
		ItalicUnderscore,
		Strikethrough,
	}
}

// TextMatchTransformers returns the default inline pattern transformers.
func TextMatchTransformers() []Transformer {
	return []Transformer{Link}
}

// Defaults returns the standard transformer list: elements, multi-line
// elements, text formats and text matches, in that order.
func Defaults() []Transformer {
	out := ElementTransformers()
	out = append(out, MultilineElementTransformers()...)
	out = append(out, TextFormatTransformers()...)
	return append(out, TextMatchTransformers()...)
}

// Extended returns Defaults plus horizontal rules and check lists. CheckList is
// placed ahead of UnorderedList so "- [ ]" lines become check items.
func Extended() []Transformer {
	out := []Transformer{HorizontalRule, Heading, Quote, CheckList, UnorderedList, OrderedList}
	out = append(out, MultilineElementTransformers()...)
	out = append(out, TextFormatTransformers()...)
	return append(out, TextMatchTransformers()...)
}
