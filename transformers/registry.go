package transformers

import (
	"errors"
	"fmt"
	"regexp"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-mdtree/document"
)

const (
	dependencyMissingCode = "TRANSFORMER_DEPENDENCY_MISSING"
	invalidTransformer    = "TRANSFORMER_INVALID"
)

var (
	// ErrDependencyMissing reports a transformer that depends on a node kind
	// the host has not registered.
	ErrDependencyMissing = errors.New("transformers: dependency not registered")
	// ErrInvalidTransformer reports a transformer missing required fields.
	ErrInvalidTransformer = errors.New("transformers: invalid transformer")
)

// Set is a transformer list split by variant. Each slice keeps the caller's
// order. Inline holds text formats and text matches interleaved in caller order.
type Set struct {
	Elements  []*Element
	Multiline []*MultilineElement
	Formats   []*TextFormat
	Matches   []*TextMatch
	Inline    []Transformer
}

// Group splits transformers by variant. Nil entries are skipped.
func Group(ts []Transformer) Set {
	var set Set
	for _, t := range ts {
		switch v := t.(type) {
		case *Element:
			if v != nil {
				set.Elements = append(set.Elements, v)
			}
		case *MultilineElement:
			if v != nil {
				set.Multiline = append(set.Multiline, v)
			}
		case *TextFormat:
			if v != nil {
				set.Formats = append(set.Formats, v)
				set.Inline = append(set.Inline, v)
			}
		case *TextMatch:
			if v != nil {
				set.Matches = append(set.Matches, v)
				set.Inline = append(set.Inline, v)
			}
		}
	}
	return set
}

// ExportFormats returns the single-format text transformers in order, keeping
// only the first transformer for each format.
func (s Set) ExportFormats() []*TextFormat {
	var (
		out  []*TextFormat
		seen document.Format
	)
	for _, tf := range s.Formats {
		if !tf.Single() || seen.Has(tf.Format) {
			continue
		}
		seen = seen.With(tf.Format)
		out = append(out, tf)
	}
	return out
}

// BlockStarts returns every pattern that can open a block: element patterns
// followed by multiline start patterns.
func (s Set) BlockStarts() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(s.Elements)+len(s.Multiline))
	for _, el := range s.Elements {
		if el.Pattern != nil {
			out = append(out, el.Pattern)
		}
	}
	for _, ml := range s.Multiline {
		if ml.Start != nil {
			out = append(out, ml.Start)
		}
	}
	return out
}

// ControlChars returns the bytes that carry inline meaning: the backslash, the
// first byte of every marker and every text match lead.
func (s Set) ControlChars() map[byte]bool {
	chars := map[byte]bool{'\\': true}
	for _, tf := range s.Formats {
		if tf.Marker != "" {
			chars[tf.Marker[0]] = true
		}
	}
	for _, tm := range s.Matches {
		if tm.Lead != 0 {
			chars[tm.Lead] = true
		}
	}
	return chars
}

// Validate checks every transformer is well formed and that its declared
// dependencies are registered in kinds. A nil kinds set uses the defaults.
func Validate(ts []Transformer, kinds document.Kinds) error {
	if kinds == nil {
		kinds = document.DefaultKinds()
	}
	for i, t := range ts {
		if err := validateShape(i, t); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "transformer is invalid").
				WithTextCode(invalidTransformer)
		}
		for _, dep := range dependencies(t) {
			if kinds.Has(dep) {
				continue
			}
			err := fmt.Errorf("%w: %s requires %q", ErrDependencyMissing, describe(i, t), dep)
			return goerrors.Wrap(err, goerrors.CategoryValidation, "transformer dependency missing").
				WithTextCode(dependencyMissingCode)
		}
	}
	return nil
}

func validateShape(i int, t Transformer) error {
	switch v := t.(type) {
	case *Element:
		if v == nil || v.Pattern == nil || v.Import == nil {
			return fmt.Errorf("%w: %s needs a pattern and an import func", ErrInvalidTransformer, describe(i, t))
		}
	case *MultilineElement:
		if v == nil || v.Start == nil || v.Import == nil {
			return fmt.Errorf("%w: %s needs a start pattern and an import func", ErrInvalidTransformer, describe(i, t))
		}
	case *TextFormat:
		if v == nil || v.Marker == "" || v.Format == 0 {
			return fmt.Errorf("%w: %s needs a marker and a format", ErrInvalidTransformer, describe(i, t))
		}
	case *TextMatch:
		if v == nil || v.Pattern == nil || v.Import == nil {
			return fmt.Errorf("%w: %s needs a pattern and an import func", ErrInvalidTransformer, describe(i, t))
		}
	default:
		return fmt.Errorf("%w: entry %d is nil", ErrInvalidTransformer, i)
	}
	return nil
}

func dependencies(t Transformer) []document.Kind {
	switch v := t.(type) {
	case *Element:
		return v.Dependencies
	case *MultilineElement:
		return v.Dependencies
	case *TextMatch:
		return v.Dependencies
	default:
		return nil
	}
}

func describe(i int, t Transformer) string {
	name := ""
	switch v := t.(type) {
	case *Element:
		if v != nil {
			name = v.Name
		}
	case *MultilineElement:
		if v != nil {
			name = v.Name
		}
	case *TextFormat:
		if v != nil {
			name = v.Marker
		}
	case *TextMatch:
		if v != nil {
			name = v.Name
		}
	case nil:
		return fmt.Sprintf("transformer %d", i)
	}
	if name == "" {
		return fmt.Sprintf("%s transformer %d", t.Variant(), i)
	}
	return fmt.Sprintf("%s transformer %q", t.Variant(), name)
}
