package query

import "iter"

// Set is an insertion-ordered set produced by ToSet.
type Set[T comparable] struct {
	index map[T]struct{}
	order []T
}

// NewSet returns an empty set.
func NewSet[T comparable]() *Set[T] {
	return &Set[T]{index: make(map[T]struct{})}
}

// Add inserts v and reports whether it was not already present.
func (s *Set[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

// Contains reports whether v is in the set.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of elements.
func (s *Set[T]) Len() int { return len(s.order) }

// Values returns the elements in insertion order.
func (s *Set[T]) Values() []T { return append([]T(nil), s.order...) }

// All iterates elements in insertion order.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.order {
			if !yield(v) {
				return
			}
		}
	}
}

// Sequence returns a sequence over the set's elements.
func (s *Set[T]) Sequence() *Sequence[T] { return FromSlice(s.Values()) }

// Dictionary is an insertion-ordered map produced by ToDictionary.
type Dictionary[K comparable, V any] struct {
	index map[K]V
	keys  []K
}

// NewDictionary returns an empty dictionary.
func NewDictionary[K comparable, V any]() *Dictionary[K, V] {
	return &Dictionary[K, V]{index: make(map[K]V)}
}

// Put stores v under k and reports whether k was new. An existing key keeps
// its original position.
func (d *Dictionary[K, V]) Put(k K, v V) bool {
	_, exists := d.index[k]
	if !exists {
		d.keys = append(d.keys, k)
	}
	d.index[k] = v
	return !exists
}

// Get returns the value stored under k.
func (d *Dictionary[K, V]) Get(k K) (V, bool) {
	v, ok := d.index[k]
	return v, ok
}

// Contains reports whether k is present.
func (d *Dictionary[K, V]) Contains(k K) bool {
	_, ok := d.index[k]
	return ok
}

// Len returns the number of entries.
func (d *Dictionary[K, V]) Len() int { return len(d.keys) }

// Keys returns the keys in insertion order.
func (d *Dictionary[K, V]) Keys() []K { return append([]K(nil), d.keys...) }

// All iterates entries in insertion order.
func (d *Dictionary[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range d.keys {
			if !yield(k, d.index[k]) {
				return
			}
		}
	}
}

// Map returns a copy of the entries as a plain map.
func (d *Dictionary[K, V]) Map() map[K]V {
	m := make(map[K]V, len(d.index))
	for k, v := range d.index {
		m[k] = v
	}
	return m
}
