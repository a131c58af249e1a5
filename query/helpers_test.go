package query

import (
	"errors"
	"testing"
)

var errBoom = errors.New("boom")

// trackedIter is an Iterator over items that records how it was used.
type trackedIter[T any] struct {
	items    []T
	pos      int
	pulls    *int
	closes   *int
	failAt   int // pull index that fails with errBoom; -1 for never
	closeErr error
}

func (it *trackedIter[T]) Next() (T, bool, error) {
	var zero T
	*it.pulls++
	if it.failAt >= 0 && it.pos == it.failAt {
		return zero, false, errBoom
	}
	if it.pos >= len(it.items) {
		return zero, false, nil
	}
	v := it.items[it.pos]
	it.pos++
	return v, true, nil
}

func (it *trackedIter[T]) Close() error {
	*it.closes++
	return it.closeErr
}

// tracked is a sequence whose cursors count pulls and closes across all
// cursors it hands out.
type tracked[T any] struct {
	seq    *Sequence[T]
	pulls  int
	closes int
	opens  int
}

func newTracked[T any](items ...T) *tracked[T] {
	return newTrackedWith(items, -1, nil)
}

func newTrackedWith[T any](items []T, failAt int, closeErr error) *tracked[T] {
	tr := &tracked[T]{}
	tr.seq = FromIterator(func() Iterator[T] {
		tr.opens++
		return &trackedIter[T]{
			items:    items,
			pulls:    &tr.pulls,
			closes:   &tr.closes,
			failAt:   failAt,
			closeErr: closeErr,
		}
	})
	return tr
}

func collect[T any](t *testing.T, s *Sequence[T]) []T {
	t.Helper()
	got, err := ToList(s)
	if err != nil {
		t.Fatal(err)
	}
	return got
}

func sliceEqual[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func assertSlice[T comparable](t *testing.T, got, want []T) {
	t.Helper()
	if !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func assertClosedOnce[T any](t *testing.T, tr *tracked[T]) {
	t.Helper()
	if tr.closes != tr.opens {
		t.Errorf("closes = %d, opens = %d", tr.closes, tr.opens)
	}
}
