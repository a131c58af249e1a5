package query

// GroupBy groups values by key. Upstream is drained on the first pull;
// groups are then yielded in first-seen key order.
func GroupBy[T any, K comparable](s *Sequence[T], key func(T) K) *Sequence[Grouping[K, T]] {
	return GroupBySelect(s, key, identity[T])
}

// GroupBySelect groups value(v) by key(v).
func GroupBySelect[T any, K comparable, V any](s *Sequence[T], key func(T) K, value func(T) V) *Sequence[Grouping[K, V]] {
	return New(func() *Cursor[Grouping[K, V]] {
		return newCursor[Grouping[K, V]](&groupIter[T, K, V]{source: s.create(), key: key, value: value})
	})
}

// Join correlates left and right on equal keys and yields result for every
// matching pair. right is drained before the first left value is read.
// Output follows left order, then right order within a key; left values
// without a match produce nothing.
func Join[L, R any, K comparable, V any](
	left *Sequence[L],
	right *Sequence[R],
	leftKey func(L) K,
	rightKey func(R) K,
	result func(L, R) V,
) *Sequence[V] {
	return New(func() *Cursor[V] {
		return newCursor[V](&joinIter[L, R, K, V]{
			left:     left.create(),
			right:    right.create(),
			leftKey:  leftKey,
			rightKey: rightKey,
			result:   result,
		})
	})
}

// GroupJoin yields one result per left value, paired with the sequence of
// right values sharing its key. The sequence is empty when nothing matches.
func GroupJoin[L, R any, K comparable, V any](
	left *Sequence[L],
	right *Sequence[R],
	leftKey func(L) K,
	rightKey func(R) K,
	result func(L, *Sequence[R]) V,
) *Sequence[V] {
	return New(func() *Cursor[V] {
		return newCursor[V](&groupJoinIter[L, R, K, V]{
			left:     left.create(),
			right:    right.create(),
			leftKey:  leftKey,
			rightKey: rightKey,
			result:   result,
		})
	})
}

type groupIter[T any, K comparable, V any] struct {
	source *Cursor[T]
	key    func(T) K
	value  func(T) V
	groups []Grouping[K, V]
	loaded bool
}

func (it *groupIter[T, K, V]) fetch() (Slot[Grouping[K, V]], error) {
	if !it.loaded {
		l, err := drainLookup(it.source, it.key, it.value)
		if err != nil {
			return Absent[Grouping[K, V]](), err
		}
		it.groups, it.loaded = l.groups, true
	}
	if len(it.groups) == 0 {
		return Absent[Grouping[K, V]](), nil
	}
	g := it.groups[0]
	it.groups = it.groups[1:]
	return Present(g), nil
}

func (it *groupIter[T, K, V]) release() error { return it.source.Close() }

type joinIter[L, R any, K comparable, V any] struct {
	left     *Cursor[L]
	right    *Cursor[R]
	leftKey  func(L) K
	rightKey func(R) K
	result   func(L, R) V

	lookup  *Lookup[K, R]
	outer   L
	matches []R
}

func (it *joinIter[L, R, K, V]) fetch() (Slot[V], error) {
	if it.lookup == nil {
		l, err := drainLookup(it.right, it.rightKey, identity[R])
		if err != nil {
			return Absent[V](), err
		}
		it.lookup = l
	}
	for len(it.matches) == 0 {
		v, err := it.left.Next()
		if err != nil || !v.present {
			return Absent[V](), err
		}
		it.outer, it.matches = v.value, it.lookup.Get(it.leftKey(v.value))
	}
	r := it.matches[0]
	it.matches = it.matches[1:]
	return Present(it.result(it.outer, r)), nil
}

func (it *joinIter[L, R, K, V]) release() error {
	return closeAll(it.left, it.right)
}

type groupJoinIter[L, R any, K comparable, V any] struct {
	left     *Cursor[L]
	right    *Cursor[R]
	leftKey  func(L) K
	rightKey func(R) K
	result   func(L, *Sequence[R]) V

	lookup *Lookup[K, R]
}

func (it *groupJoinIter[L, R, K, V]) fetch() (Slot[V], error) {
	if it.lookup == nil {
		l, err := drainLookup(it.right, it.rightKey, identity[R])
		if err != nil {
			return Absent[V](), err
		}
		it.lookup = l
	}
	v, err := it.left.Next()
	if err != nil || !v.present {
		return Absent[V](), err
	}
	return Present(it.result(v.value, FromSlice(it.lookup.Get(it.leftKey(v.value))))), nil
}

func (it *groupJoinIter[L, R, K, V]) release() error {
	return closeAll(it.left, it.right)
}
