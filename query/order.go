package query

import (
	"cmp"
	"slices"
)

// Ordered is a sorted sequence that can be refined with secondary keys.
// The embedded Sequence sorts with the full comparator chain; the unsorted
// source is kept so ThenBy never sorts twice.
type Ordered[T any] struct {
	*Sequence[T]
	source  *Sequence[T]
	compare func(a, b T) int
}

// OrderBy sorts ascending by key. The sort is stable.
func OrderBy[T any, K cmp.Ordered](s *Sequence[T], key func(T) K) *Ordered[T] {
	return OrderByFunc(s, keyCompare(key))
}

// OrderByDescending sorts descending by key. Values with equal keys keep
// their encounter order.
func OrderByDescending[T any, K cmp.Ordered](s *Sequence[T], key func(T) K) *Ordered[T] {
	return OrderByFunc(s, descending(keyCompare(key)))
}

// OrderByFunc sorts with compare, which returns a negative number when a
// sorts before b, a positive number when after, and zero when equal.
func OrderByFunc[T any](s *Sequence[T], compare func(a, b T) int) *Ordered[T] {
	return newOrdered(s, compare)
}

// ThenBy breaks ties of o ascending by key.
func ThenBy[T any, K cmp.Ordered](o *Ordered[T], key func(T) K) *Ordered[T] {
	return ThenByFunc(o, keyCompare(key))
}

// ThenByDescending breaks ties of o descending by key.
func ThenByDescending[T any, K cmp.Ordered](o *Ordered[T], key func(T) K) *Ordered[T] {
	return ThenByFunc(o, descending(keyCompare(key)))
}

// ThenByFunc breaks ties of o with compare.
func ThenByFunc[T any](o *Ordered[T], compare func(a, b T) int) *Ordered[T] {
	primary := o.compare
	return newOrdered(o.source, func(a, b T) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		return compare(a, b)
	})
}

func newOrdered[T any](s *Sequence[T], compare func(a, b T) int) *Ordered[T] {
	return &Ordered[T]{
		Sequence: New(func() *Cursor[T] {
			return newCursor[T](&sortIter[T]{source: s.create(), compare: compare})
		}),
		source:  s,
		compare: compare,
	}
}

func keyCompare[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}

func descending[T any](compare func(a, b T) int) func(a, b T) int {
	return func(a, b T) int { return compare(b, a) }
}

type sortIter[T any] struct {
	source  *Cursor[T]
	compare func(a, b T) int
	buf     []T
	loaded  bool
}

func (it *sortIter[T]) fetch() (Slot[T], error) {
	if !it.loaded {
		buf, err := drainSlice(it.source)
		if err != nil {
			return Absent[T](), err
		}
		slices.SortStableFunc(buf, it.compare)
		it.buf, it.loaded = buf, true
	}
	if len(it.buf) == 0 {
		return Absent[T](), nil
	}
	v := it.buf[0]
	it.buf = it.buf[1:]
	return Present(v), nil
}

func (it *sortIter[T]) release() error { return it.source.Close() }

// drainSlice pulls every remaining value of c into a new slice.
func drainSlice[T any](c *Cursor[T]) ([]T, error) {
	var buf []T
	for {
		v, err := c.Next()
		if err != nil {
			return nil, err
		}
		if !v.present {
			return buf, nil
		}
		buf = append(buf, v.value)
	}
}
