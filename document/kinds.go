package document

import "sort"

// Kinds is the set of node kinds a host has made available. Transformers
// declare the kinds they depend on and are validated against this set.
type Kinds map[Kind]struct{}

// DefaultKinds returns the built-in node kinds.
func DefaultKinds() Kinds {
	return NewKinds(
		KindRoot,
		KindParagraph,
		KindHeading,
		KindQuote,
		KindList,
		KindListItem,
		KindCode,
		KindHorizontalRule,
		KindText,
		KindLineBreak,
		KindLink,
	)
}

// NewKinds builds a set from the supplied kinds.
func NewKinds(kinds ...Kind) Kinds {
	set := make(Kinds, len(kinds))
	set.Register(kinds...)
	return set
}

// Register adds kinds to the set. Empty kinds are ignored.
func (k Kinds) Register(kinds ...Kind) {
	for _, kind := range kinds {
		if kind == "" {
			continue
		}
		k[kind] = struct{}{}
	}
}

// Has reports whether kind is registered.
func (k Kinds) Has(kind Kind) bool {
	_, ok := k[kind]
	return ok
}

// List returns the registered kinds sorted by name.
func (k Kinds) List() []Kind {
	out := make([]Kind, 0, len(k))
	for kind := range k {
		out = append(out, kind)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})
	return out
}
