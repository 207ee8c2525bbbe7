package transformers

// Result is the outcome of a transformer callback: either Matched with a value
// or NoMatch, which tells the dispatcher to try the next transformer.
type Result[T any] struct {
	value   T
	matched bool
}

// Matched wraps an accepted value.
func Matched[T any](value T) Result[T] {
	return Result[T]{value: value, matched: true}
}

// NoMatch signals fallthrough to the next transformer.
func NoMatch[T any]() Result[T] {
	return Result[T]{}
}

// Get returns the value and whether the transformer accepted the input.
func (r Result[T]) Get() (T, bool) {
	return r.value, r.matched
}

// IsMatched reports whether the transformer accepted the input.
func (r Result[T]) IsMatched() bool {
	return r.matched
}
