package query

// Distinct yields each value the first time it is seen, in encounter order.
func Distinct[T comparable](s *Sequence[T]) *Sequence[T] {
	return DistinctBy(s, identity[T])
}

// DistinctBy yields the first value seen for each key, in encounter order.
func DistinctBy[T any, K comparable](s *Sequence[T], key func(T) K) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&distinctIter[T, K]{
			source: s.create(),
			key:    key,
			seen:   make(map[K]struct{}),
		})
	})
}

// Union yields the distinct values of left followed by the distinct values of
// right not already seen in left. Both sides are drained, left first, before
// the first value is emitted.
func Union[T comparable](left, right *Sequence[T]) *Sequence[T] {
	return UnionBy(left, right, identity[T])
}

// UnionBy is Union keyed by key; the first value seen per key wins.
func UnionBy[T any, K comparable](left, right *Sequence[T], key func(T) K) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&unionIter[T, K]{left: left.create(), right: right.create(), key: key})
	})
}

// Intersect yields the distinct values of left that also occur in right.
// right is drained completely before the first value of left is read.
func Intersect[T comparable](left, right *Sequence[T]) *Sequence[T] {
	return IntersectBy(left, right, identity[T])
}

// IntersectBy yields the values of left whose key occurs in keys, at most
// once per key. keys is drained completely before left is read.
func IntersectBy[T any, K comparable](left *Sequence[T], keys *Sequence[K], key func(T) K) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&filterSetIter[T, K]{
			left:  left.create(),
			right: keys.create(),
			key:   key,
			keep:  true,
		})
	})
}

// Except yields the distinct values of left that do not occur in right.
// right is drained completely before the first value of left is read.
func Except[T comparable](left, right *Sequence[T]) *Sequence[T] {
	return ExceptBy(left, right, identity[T])
}

// ExceptBy yields the values of left whose key does not occur among the keys
// of right, at most once per key.
func ExceptBy[T any, K comparable](left, right *Sequence[T], key func(T) K) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&filterSetIter[T, K]{
			left:  left.create(),
			right: Map(right, key).create(),
			key:   key,
			keep:  false,
		})
	})
}

func identity[T any](v T) T { return v }

// distinctIter streams its source through a membership set.
type distinctIter[T any, K comparable] struct {
	source *Cursor[T]
	key    func(T) K
	seen   map[K]struct{}
}

func (it *distinctIter[T, K]) fetch() (Slot[T], error) {
	for {
		v, err := it.source.Next()
		if err != nil || !v.present {
			return v, err
		}
		k := it.key(v.value)
		if _, dup := it.seen[k]; dup {
			continue
		}
		it.seen[k] = struct{}{}
		return v, nil
	}
}

func (it *distinctIter[T, K]) release() error { return it.source.Close() }

// unionIter drains left then right into an insertion-ordered key set on the
// first pull and emits from it.
type unionIter[T any, K comparable] struct {
	left  *Cursor[T]
	right *Cursor[T]
	key   func(T) K
	items []T
	ready bool
}

func (it *unionIter[T, K]) fetch() (Slot[T], error) {
	if !it.ready {
		members := NewDictionary[K, T]()
		for _, c := range []*Cursor[T]{it.left, it.right} {
			err := each(c, func(v T) bool {
				if k := it.key(v); !members.Contains(k) {
					members.Put(k, v)
				}
				return true
			})
			if err != nil {
				return Absent[T](), err
			}
		}
		for _, v := range members.All() {
			it.items = append(it.items, v)
		}
		it.ready = true
	}
	if len(it.items) == 0 {
		return Absent[T](), nil
	}
	v := it.items[0]
	it.items = it.items[1:]
	return Present(v), nil
}

func (it *unionIter[T, K]) release() error {
	return closeAll(it.left, it.right)
}

// filterSetIter drains right into a key set, then streams left. With keep
// set a left value passes when its key is in the set and the key is then
// removed; otherwise it passes when its key is absent and the key is then
// added. Either way each key is emitted at most once.
type filterSetIter[T any, K comparable] struct {
	left  *Cursor[T]
	right *Cursor[K]
	key   func(T) K
	keep  bool
	set   map[K]struct{}
}

func (it *filterSetIter[T, K]) fetch() (Slot[T], error) {
	if it.set == nil {
		set, err := drainSet(it.right)
		if err != nil {
			return Absent[T](), err
		}
		it.set = set
	}
	for {
		v, err := it.left.Next()
		if err != nil || !v.present {
			return v, err
		}
		k := it.key(v.value)
		_, found := it.set[k]
		if found != it.keep {
			continue
		}
		if it.keep {
			delete(it.set, k)
		} else {
			it.set[k] = struct{}{}
		}
		return v, nil
	}
}

func (it *filterSetIter[T, K]) release() error {
	return closeAll(it.left, it.right)
}

func drainSet[K comparable](c *Cursor[K]) (map[K]struct{}, error) {
	set := make(map[K]struct{})
	for {
		v, err := c.Next()
		if err != nil {
			return nil, err
		}
		if !v.present {
			return set, nil
		}
		set[v.value] = struct{}{}
	}
}
