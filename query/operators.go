package query

import (
	"reflect"

	"github.com/kbukum/querykit/errors"
)

// Filter keeps only values that satisfy the predicate.
func Filter[T any](s *Sequence[T], fn func(T) bool) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&filterIter[T]{source: s.create(), fn: fn})
	})
}

// Map transforms each value using fn.
func Map[I, O any](s *Sequence[I], fn func(I) O) *Sequence[O] {
	return New(func() *Cursor[O] {
		return newCursor[O](&mapIter[I, O]{source: s.create(), fn: fn})
	})
}

// FlatMap transforms each value into a sequence and flattens the results.
// Each inner cursor is closed as soon as it is exhausted, before the next
// outer value is pulled.
func FlatMap[I, O any](s *Sequence[I], fn func(I) *Sequence[O]) *Sequence[O] {
	return New(func() *Cursor[O] {
		return newCursor[O](&flatMapIter[I, O]{source: s.create(), fn: fn})
	})
}

// Concat joins sequences end to end. All cursors are opened together and
// closed together, in argument order, even those never pulled.
func Concat[T any](seqs ...*Sequence[T]) *Sequence[T] {
	return New(func() *Cursor[T] {
		iters := make([]*Cursor[T], len(seqs))
		for i, s := range seqs {
			iters[i] = s.create()
		}
		return newCursor[T](&concatIter[T]{iters: iters})
	})
}

// Prepend yields v followed by the values of s.
func Prepend[T any](s *Sequence[T], v T) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&prependIter[T]{source: s.create(), value: v})
	})
}

// Append yields the values of s followed by v.
func Append[T any](s *Sequence[T], v T) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&appendIter[T]{source: s.create(), value: v})
	})
}

// Skip drops the first n values.
func Skip[T any](s *Sequence[T], n int) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&skipIter[T]{source: s.create(), remaining: n})
	})
}

// SkipWhile drops values while fn holds, then yields the rest unfiltered.
func SkipWhile[T any](s *Sequence[T], fn func(T) bool) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&skipWhileIter[T]{source: s.create(), fn: fn})
	})
}

// Take yields at most n values. Upstream is not pulled past the n-th value.
func Take[T any](s *Sequence[T], n int) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&takeIter[T]{source: s.create(), remaining: n})
	})
}

// TakeWhile yields values until fn first fails.
func TakeWhile[T any](s *Sequence[T], fn func(T) bool) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&takeWhileIter[T]{source: s.create(), fn: fn})
	})
}

// Zip pairs values from both sequences positionally. It stops as soon as
// either side is exhausted and closes both.
func Zip[L, R any](left *Sequence[L], right *Sequence[R]) *Sequence[Pair[L, R]] {
	return New(func() *Cursor[Pair[L, R]] {
		return newCursor[Pair[L, R]](&zipIter[L, R]{left: left.create(), right: right.create()})
	})
}

// Cast converts each value to U with a type assertion. A value that does not
// convert fails the pull that reached it with a CLASS_MISMATCH error;
// values before it are delivered normally. A nil interface value becomes
// the zero U when U can hold nil (interface, pointer, map, slice, channel
// or func) and is a mismatch otherwise.
func Cast[U, T any](s *Sequence[T]) *Sequence[U] {
	return New(func() *Cursor[U] {
		return newCursor[U](&castIter[T, U]{source: s.create()})
	})
}

// OfType keeps only values that convert to U, silently skipping the rest,
// nil interface values included.
func OfType[U, T any](s *Sequence[T]) *Sequence[U] {
	return New(func() *Cursor[U] {
		return newCursor[U](&ofTypeIter[T, U]{source: s.create()})
	})
}

// DefaultIfEmpty yields def once if s is empty, otherwise the values of s.
func DefaultIfEmpty[T any](s *Sequence[T], def T) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&defaultIfEmptyIter[T]{source: s.create(), value: def})
	})
}

// Tap calls fn as a side-effect for each value, then passes the value through unchanged.
func Tap[T any](s *Sequence[T], fn func(T)) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&tapIter[T]{source: s.create(), fn: fn})
	})
}

// Hooks observe one cursor's lifetime. Any field may be nil.
type Hooks[T any] struct {
	// OnElement runs for every value pulled through the cursor.
	OnElement func(T)
	// OnError runs when a pull fails.
	OnError func(error)
	// OnExhausted runs when upstream reports no more values.
	OnExhausted func()
	// OnClose runs exactly once, after upstream is released, with the
	// number of values pulled and the release failure if any.
	OnClose func(pulled int, err error)
}

// Observe attaches lifecycle hooks to every cursor of s. open is called
// once per cursor, so hooks may keep per-cursor state in closures.
func Observe[T any](s *Sequence[T], open func() Hooks[T]) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&observeIter[T]{source: s.create(), hooks: open()})
	})
}

// --- Iterator implementations ---

type filterIter[T any] struct {
	source *Cursor[T]
	fn     func(T) bool
}

func (it *filterIter[T]) fetch() (Slot[T], error) {
	for {
		v, err := it.source.Next()
		if err != nil || !v.present {
			return v, err
		}
		if it.fn(v.value) {
			return v, nil
		}
	}
}

func (it *filterIter[T]) release() error { return it.source.Close() }

type mapIter[I, O any] struct {
	source *Cursor[I]
	fn     func(I) O
}

func (it *mapIter[I, O]) fetch() (Slot[O], error) {
	v, err := it.source.Next()
	if err != nil || !v.present {
		return Absent[O](), err
	}
	return Present(it.fn(v.value)), nil
}

func (it *mapIter[I, O]) release() error { return it.source.Close() }

type flatMapIter[I, O any] struct {
	source  *Cursor[I]
	fn      func(I) *Sequence[O]
	current *Cursor[O]
}

func (it *flatMapIter[I, O]) fetch() (Slot[O], error) {
	for {
		if it.current != nil {
			v, err := it.current.Next()
			if err != nil {
				return Absent[O](), err
			}
			if v.present {
				return v, nil
			}
			// exhausted, so already released
			it.current = nil
		}
		in, err := it.source.Next()
		if err != nil || !in.present {
			return Absent[O](), err
		}
		it.current = it.fn(in.value).create()
	}
}

func (it *flatMapIter[I, O]) release() error {
	return closeAll(it.current, it.source)
}

type concatIter[T any] struct {
	iters []*Cursor[T]
	index int
}

func (it *concatIter[T]) fetch() (Slot[T], error) {
	for it.index < len(it.iters) {
		v, err := it.iters[it.index].Next()
		if err != nil {
			return v, err
		}
		if v.present {
			return v, nil
		}
		it.index++
	}
	return Absent[T](), nil
}

func (it *concatIter[T]) release() error {
	cs := make([]closer, len(it.iters))
	for i, c := range it.iters {
		cs[i] = c
	}
	return closeAll(cs...)
}

type prependIter[T any] struct {
	source  *Cursor[T]
	value   T
	emitted bool
}

func (it *prependIter[T]) fetch() (Slot[T], error) {
	if !it.emitted {
		it.emitted = true
		return Present(it.value), nil
	}
	return it.source.Next()
}

func (it *prependIter[T]) release() error { return it.source.Close() }

type appendIter[T any] struct {
	source  *Cursor[T]
	value   T
	emitted bool
}

func (it *appendIter[T]) fetch() (Slot[T], error) {
	if it.emitted {
		return Absent[T](), nil
	}
	v, err := it.source.Next()
	if err != nil || v.present {
		return v, err
	}
	it.emitted = true
	return Present(it.value), nil
}

func (it *appendIter[T]) release() error { return it.source.Close() }

type skipIter[T any] struct {
	source    *Cursor[T]
	remaining int
}

func (it *skipIter[T]) fetch() (Slot[T], error) {
	for ; it.remaining > 0; it.remaining-- {
		v, err := it.source.Next()
		if err != nil || !v.present {
			return v, err
		}
	}
	return it.source.Next()
}

func (it *skipIter[T]) release() error { return it.source.Close() }

type skipWhileIter[T any] struct {
	source  *Cursor[T]
	fn      func(T) bool
	skipped bool
}

func (it *skipWhileIter[T]) fetch() (Slot[T], error) {
	if it.skipped {
		return it.source.Next()
	}
	it.skipped = true
	for {
		v, err := it.source.Next()
		if err != nil || !v.present {
			return v, err
		}
		if !it.fn(v.value) {
			return v, nil
		}
	}
}

func (it *skipWhileIter[T]) release() error { return it.source.Close() }

type takeIter[T any] struct {
	source    *Cursor[T]
	remaining int
}

func (it *takeIter[T]) fetch() (Slot[T], error) {
	if it.remaining <= 0 {
		return Absent[T](), nil
	}
	it.remaining--
	return it.source.Next()
}

func (it *takeIter[T]) release() error { return it.source.Close() }

type takeWhileIter[T any] struct {
	source     *Cursor[T]
	fn         func(T) bool
	terminated bool
}

func (it *takeWhileIter[T]) fetch() (Slot[T], error) {
	if it.terminated {
		return Absent[T](), nil
	}
	v, err := it.source.Next()
	if err != nil || !v.present {
		return v, err
	}
	if !it.fn(v.value) {
		it.terminated = true
		return Absent[T](), nil
	}
	return v, nil
}

func (it *takeWhileIter[T]) release() error { return it.source.Close() }

type zipIter[L, R any] struct {
	left  *Cursor[L]
	right *Cursor[R]
}

func (it *zipIter[L, R]) fetch() (Slot[Pair[L, R]], error) {
	l, err := it.left.Next()
	if err != nil || !l.present {
		return Absent[Pair[L, R]](), err
	}
	r, err := it.right.Next()
	if err != nil || !r.present {
		return Absent[Pair[L, R]](), err
	}
	return Present(MakePair(l.value, r.value)), nil
}

func (it *zipIter[L, R]) release() error {
	return closeAll(it.left, it.right)
}

type castIter[T, U any] struct {
	source *Cursor[T]
}

func (it *castIter[T, U]) fetch() (Slot[U], error) {
	v, err := it.source.Next()
	if err != nil || !v.present {
		return Absent[U](), err
	}
	if any(v.value) == nil && nilable[U]() {
		var zero U
		return Present(zero), nil
	}
	u, ok := any(v.value).(U)
	if !ok {
		return Absent[U](), errors.ClassMismatch(v.value, reflect.TypeFor[U]().String())
	}
	return Present(u), nil
}

func nilable[U any]() bool {
	switch reflect.TypeFor[U]().Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	}
	return false
}

func (it *castIter[T, U]) release() error { return it.source.Close() }

type ofTypeIter[T, U any] struct {
	source *Cursor[T]
}

func (it *ofTypeIter[T, U]) fetch() (Slot[U], error) {
	for {
		v, err := it.source.Next()
		if err != nil || !v.present {
			return Absent[U](), err
		}
		if u, ok := any(v.value).(U); ok {
			return Present(u), nil
		}
	}
}

func (it *ofTypeIter[T, U]) release() error { return it.source.Close() }

type defaultIfEmptyIter[T any] struct {
	source  *Cursor[T]
	value   T
	started bool
	empty   bool
}

func (it *defaultIfEmptyIter[T]) fetch() (Slot[T], error) {
	if it.empty {
		return Absent[T](), nil
	}
	v, err := it.source.Next()
	if err != nil || it.started {
		return v, err
	}
	it.started = true
	if !v.present {
		it.empty = true
		return Present(it.value), nil
	}
	return v, nil
}

func (it *defaultIfEmptyIter[T]) release() error { return it.source.Close() }

type tapIter[T any] struct {
	source *Cursor[T]
	fn     func(T)
}

func (it *tapIter[T]) fetch() (Slot[T], error) {
	v, err := it.source.Next()
	if err != nil || !v.present {
		return v, err
	}
	it.fn(v.value)
	return v, nil
}

func (it *tapIter[T]) release() error { return it.source.Close() }

type observeIter[T any] struct {
	source *Cursor[T]
	hooks  Hooks[T]
	pulled int
}

func (it *observeIter[T]) fetch() (Slot[T], error) {
	v, err := it.source.Next()
	if err != nil {
		if it.hooks.OnError != nil {
			it.hooks.OnError(err)
		}
		return v, err
	}
	if !v.present {
		if it.hooks.OnExhausted != nil {
			it.hooks.OnExhausted()
		}
		return v, nil
	}
	it.pulled++
	if it.hooks.OnElement != nil {
		it.hooks.OnElement(v.value)
	}
	return v, nil
}

func (it *observeIter[T]) release() error {
	err := it.source.Close()
	if it.hooks.OnClose != nil {
		it.hooks.OnClose(it.pulled, err)
	}
	return err
}
