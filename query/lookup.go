package query

import "slices"

// Grouping is one key of a Lookup together with its values in encounter
// order.
type Grouping[K comparable, V any] struct {
	Key    K
	Values []V
}

// Sequence returns a sequence over the grouping's values.
func (g Grouping[K, V]) Sequence() *Sequence[V] {
	return FromSlice(g.Values)
}

// Lookup is a multimap whose keys keep first-seen order.
type Lookup[K comparable, V any] struct {
	index  map[K]int
	groups []Grouping[K, V]
}

// NewLookup returns an empty lookup.
func NewLookup[K comparable, V any]() *Lookup[K, V] {
	return &Lookup[K, V]{index: make(map[K]int)}
}

// Add appends v to the values of k.
func (l *Lookup[K, V]) Add(k K, v V) {
	i, ok := l.index[k]
	if !ok {
		i = len(l.groups)
		l.index[k] = i
		l.groups = append(l.groups, Grouping[K, V]{Key: k})
	}
	l.groups[i].Values = append(l.groups[i].Values, v)
}

// Len returns the number of distinct keys.
func (l *Lookup[K, V]) Len() int { return len(l.groups) }

// Keys returns the keys in first-seen order.
func (l *Lookup[K, V]) Keys() []K {
	keys := make([]K, len(l.groups))
	for i, g := range l.groups {
		keys[i] = g.Key
	}
	return keys
}

// Get returns the values for k, or an empty slice when k is missing. The
// slice is clipped, so appending to it never writes into the lookup.
func (l *Lookup[K, V]) Get(k K) []V {
	if i, ok := l.index[k]; ok {
		return slices.Clip(l.groups[i].Values)
	}
	return []V{}
}

// Contains reports whether k has at least one value.
func (l *Lookup[K, V]) Contains(k K) bool {
	_, ok := l.index[k]
	return ok
}

// Groupings returns a sequence over the groups in first-seen key order.
func (l *Lookup[K, V]) Groupings() *Sequence[Grouping[K, V]] {
	return FromSlice(l.groups)
}

func drainLookup[T any, K comparable, V any](c *Cursor[T], key func(T) K, value func(T) V) (*Lookup[K, V], error) {
	l := NewLookup[K, V]()
	for {
		v, err := c.Next()
		if err != nil {
			return nil, err
		}
		if !v.present {
			return l, nil
		}
		l.Add(key(v.value), value(v.value))
	}
}
