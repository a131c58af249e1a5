package query

import (
	"iter"

	"github.com/kbukum/querykit/errors"
)

// Iterator is an external pull source with its own closing contract.
// Next returns (zero, false, nil) when exhausted.
type Iterator[T any] interface {
	Next() (T, bool, error)
	Close() error
}

// Empty returns a sequence with no elements.
func Empty[T any]() *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](emptySource[T]{})
	})
}

// Of returns a sequence over the given values.
func Of[T any](xs ...T) *Sequence[T] {
	return FromSlice(xs)
}

// FromSlice returns a sequence over items. The slice is read, not copied,
// so later writes to it are visible to cursors created afterwards.
func FromSlice[T any](items []T) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&sliceSource[T]{items: items})
	})
}

// Range returns count consecutive integers starting at start.
func Range(start, count int) *Sequence[int] {
	return New(func() *Cursor[int] {
		i := 0
		return NewCursor(func() (Slot[int], error) {
			if i >= count {
				return Absent[int](), nil
			}
			i++
			return Present(start + i - 1), nil
		}, nil)
	})
}

// Repeat returns a sequence yielding v count times.
func Repeat[T any](v T, count int) *Sequence[T] {
	return New(func() *Cursor[T] {
		i := 0
		return NewCursor(func() (Slot[T], error) {
			if i >= count {
				return Absent[T](), nil
			}
			i++
			return Present(v), nil
		}, nil)
	})
}

// FromSeq adapts a standard library iterator. Each cursor drives its own
// iter.Pull; closing the cursor stops the iterator.
func FromSeq[T any](seq iter.Seq[T]) *Sequence[T] {
	return New(func() *Cursor[T] {
		next, stop := iter.Pull(seq)
		return NewCursor(func() (Slot[T], error) {
			v, ok := next()
			if !ok {
				return Absent[T](), nil
			}
			return Present(v), nil
		}, func() error {
			stop()
			return nil
		})
	})
}

// FromIterator adapts an external resource. open is called once per cursor
// and the returned Iterator is closed exactly once per cursor, whether the
// cursor is drained, closed early, or fails.
//
// Replaying the sequence calls open again; if open hands back the same
// one-shot resource each time the sequence is not re-enterable, and that is
// the caller's responsibility.
func FromIterator[T any](open func() Iterator[T]) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&iteratorSource[T]{it: open()})
	})
}

type emptySource[T any] struct{}

func (emptySource[T]) fetch() (Slot[T], error) { return Absent[T](), nil }
func (emptySource[T]) release() error          { return nil }

type sliceSource[T any] struct {
	items []T
	index int
}

func (s *sliceSource[T]) fetch() (Slot[T], error) {
	if s.index >= len(s.items) {
		return Absent[T](), nil
	}
	v := s.items[s.index]
	s.index++
	return Present(v), nil
}

func (s *sliceSource[T]) release() error {
	s.items = nil
	return nil
}

type iteratorSource[T any] struct {
	it Iterator[T]
}

func (s *iteratorSource[T]) fetch() (Slot[T], error) {
	v, ok, err := s.it.Next()
	if err != nil || !ok {
		return Absent[T](), err
	}
	return Present(v), nil
}

func (s *iteratorSource[T]) release() error {
	if err := s.it.Close(); err != nil {
		return errors.CloseFailed(err)
	}
	return nil
}
