package query

import "iter"

// Sequence is an immutable, replayable description of a pipeline.
// No work happens until a cursor is obtained and pulled; every Cursor call
// builds a fresh, independent decorator chain.
type Sequence[T any] struct {
	create func() *Cursor[T]
}

// New creates a sequence from a cursor factory. The factory must return a
// new cursor on every call.
func New[T any](create func() *Cursor[T]) *Sequence[T] {
	return &Sequence[T]{create: create}
}

// Cursor returns a fresh cursor for this sequence. The caller must drain it
// or Close it.
func (s *Sequence[T]) Cursor() *Cursor[T] {
	return s.create()
}

// All returns a range-over-func view of a fresh cursor. Breaking out of the
// loop closes the cursor.
//
//	for v, err := range seq.All() {
//	    if err != nil {
//	        return err
//	    }
//	    use(v)
//	}
func (s *Sequence[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		s.create().All()(yield)
	}
}

// Pair is the element type produced by Zip.
type Pair[L, R any] struct {
	First  L
	Second R
}

// MakePair builds a Pair.
func MakePair[L, R any](first L, second R) Pair[L, R] {
	return Pair[L, R]{First: first, Second: second}
}
