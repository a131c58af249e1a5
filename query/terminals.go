package query

import (
	"cmp"
	stderrors "errors"

	"github.com/kbukum/querykit/errors"
)

// Number is the element constraint of Sum and Average.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// closeInto closes c and joins any release failure into *err.
func closeInto[T any](c *Cursor[T], err *error) {
	*err = stderrors.Join(*err, c.Close())
}

// each pulls c until it is exhausted or fn returns false.
func each[T any](c *Cursor[T], fn func(T) bool) error {
	for {
		v, err := c.Next()
		if err != nil || !v.present {
			return err
		}
		if !fn(v.value) {
			return nil
		}
	}
}

// --- Reducers ---

// Aggregate folds the values with fn, using the first value as the seed.
// It fails with EMPTY_SEQUENCE when s is empty.
func Aggregate[T any](s *Sequence[T], fn func(acc, v T) T) (result T, err error) {
	c := s.create()
	defer closeInto(c, &err)
	first, err := c.Next()
	if err != nil {
		return result, err
	}
	if !first.present {
		return result, errors.EmptySequence("aggregate")
	}
	acc := first.value
	if err := each(c, func(v T) bool { acc = fn(acc, v); return true }); err != nil {
		return result, err
	}
	return acc, nil
}

// AggregateSeed folds the values into seed with fn. An empty s returns seed.
func AggregateSeed[T, A any](s *Sequence[T], seed A, fn func(acc A, v T) A) (result A, err error) {
	c := s.create()
	defer closeInto(c, &err)
	acc := seed
	if err := each(c, func(v T) bool { acc = fn(acc, v); return true }); err != nil {
		return result, err
	}
	return acc, nil
}

// Sum adds the values. An empty s sums to zero.
func Sum[T Number](s *Sequence[T]) (T, error) {
	return AggregateSeed(s, T(0), func(acc, v T) T { return acc + v })
}

// Average returns the sum divided by the count, truncated for integer types.
// The sum is accumulated in 64 bits, so small element types neither wrap
// nor divide by a truncated count. It fails with EMPTY_SEQUENCE when s is
// empty.
func Average[T Number](s *Sequence[T]) (result T, err error) {
	c := s.create()
	defer closeInto(c, &err)

	var one T
	one++
	isFloat := one/2 != 0
	isSigned := one-2 < 0

	var (
		fsum float64
		isum int64
		usum uint64
		n    int
	)
	err = each(c, func(v T) bool {
		switch {
		case isFloat:
			fsum += float64(v)
		case isSigned:
			isum += int64(v)
		default:
			usum += uint64(v)
		}
		n++
		return true
	})
	if err != nil {
		return result, err
	}
	if n == 0 {
		return result, errors.EmptySequence("average")
	}
	switch {
	case isFloat:
		return T(fsum / float64(n)), nil
	case isSigned:
		return T(isum / int64(n)), nil
	default:
		return T(usum / uint64(n)), nil
	}
}

// Min returns the smallest value. It fails with EMPTY_SEQUENCE when s is
// empty.
func Min[T cmp.Ordered](s *Sequence[T]) (T, error) {
	return extreme(s, "min", cmp.Compare[T], -1)
}

// Max returns the largest value. It fails with EMPTY_SEQUENCE when s is
// empty.
func Max[T cmp.Ordered](s *Sequence[T]) (T, error) {
	return extreme(s, "max", cmp.Compare[T], 1)
}

// MinFunc returns the first value that no other value sorts before.
func MinFunc[T any](s *Sequence[T], compare func(a, b T) int) (T, error) {
	return extreme(s, "min", compare, -1)
}

// MaxFunc returns the first value that no other value sorts after.
func MaxFunc[T any](s *Sequence[T], compare func(a, b T) int) (T, error) {
	return extreme(s, "max", compare, 1)
}

// MinBy returns the value with the smallest key; the first wins on ties.
func MinBy[T any, K cmp.Ordered](s *Sequence[T], key func(T) K) (T, error) {
	return extreme(s, "min_by", keyCompare(key), -1)
}

// MaxBy returns the value with the largest key; the first wins on ties.
func MaxBy[T any, K cmp.Ordered](s *Sequence[T], key func(T) K) (T, error) {
	return extreme(s, "max_by", keyCompare(key), 1)
}

// MinByFunc is MinBy with a custom key comparator.
func MinByFunc[T, K any](s *Sequence[T], key func(T) K, compare func(a, b K) int) (T, error) {
	return extreme(s, "min_by", func(a, b T) int { return compare(key(a), key(b)) }, -1)
}

// MaxByFunc is MaxBy with a custom key comparator.
func MaxByFunc[T, K any](s *Sequence[T], key func(T) K, compare func(a, b K) int) (T, error) {
	return extreme(s, "max_by", func(a, b T) int { return compare(key(a), key(b)) }, 1)
}

// extreme keeps the current best and replaces it only when a later value
// compares strictly in direction sign, so ties keep the earliest value.
func extreme[T any](s *Sequence[T], op string, compare func(a, b T) int, sign int) (result T, err error) {
	c := s.create()
	defer closeInto(c, &err)
	best, err := c.Next()
	if err != nil {
		return result, err
	}
	if !best.present {
		return result, errors.EmptySequence(op)
	}
	err = each(c, func(v T) bool {
		if compare(v, best.value)*sign > 0 {
			best = Present(v)
		}
		return true
	})
	if err != nil {
		return result, err
	}
	return best.value, nil
}

// Count returns the number of values.
func Count[T any](s *Sequence[T]) (int, error) {
	return AggregateSeed(s, 0, func(n int, _ T) int { return n + 1 })
}

// --- Quantifiers ---

// Any reports whether s has at least one value. At most one value is pulled.
func Any[T any](s *Sequence[T]) (ok bool, err error) {
	c := s.create()
	defer closeInto(c, &err)
	v, err := c.Next()
	return v.present, err
}

// AnyMatch reports whether some value satisfies fn, stopping at the first.
func AnyMatch[T any](s *Sequence[T], fn func(T) bool) (found bool, err error) {
	c := s.create()
	defer closeInto(c, &err)
	err = each(c, func(v T) bool {
		found = fn(v)
		return !found
	})
	return found && err == nil, err
}

// All reports whether every value satisfies fn, stopping at the first
// failure. An empty s satisfies All.
func All[T any](s *Sequence[T], fn func(T) bool) (bool, error) {
	found, err := AnyMatch(s, func(v T) bool { return !fn(v) })
	return !found && err == nil, err
}

// Contains reports whether v occurs in s.
func Contains[T comparable](s *Sequence[T], v T) (bool, error) {
	return AnyMatch(s, func(x T) bool { return x == v })
}

// --- Element extraction ---

// FirstSlot returns the first value, or Absent when s is empty.
func FirstSlot[T any](s *Sequence[T]) (slot Slot[T], err error) {
	c := s.create()
	defer closeInto(c, &err)
	return c.Next()
}

// First returns the first value. It fails with EMPTY_SEQUENCE when s is empty.
func First[T any](s *Sequence[T]) (T, error) {
	slot, err := FirstSlot(s)
	return required(slot, err, "first")
}

// FirstOrDefault returns the first value, or def when s is empty.
func FirstOrDefault[T any](s *Sequence[T], def T) (T, error) {
	slot, err := FirstSlot(s)
	return orDefault(slot, err, def)
}

// LastSlot returns the last value, or Absent when s is empty.
func LastSlot[T any](s *Sequence[T]) (slot Slot[T], err error) {
	c := s.create()
	defer closeInto(c, &err)
	err = each(c, func(v T) bool { slot = Present(v); return true })
	if err != nil {
		return Absent[T](), err
	}
	return slot, nil
}

// Last returns the last value. It fails with EMPTY_SEQUENCE when s is empty.
func Last[T any](s *Sequence[T]) (T, error) {
	slot, err := LastSlot(s)
	return required(slot, err, "last")
}

// LastOrDefault returns the last value, or def when s is empty.
func LastOrDefault[T any](s *Sequence[T], def T) (T, error) {
	slot, err := LastSlot(s)
	return orDefault(slot, err, def)
}

// singleSlot returns the only value, Absent when s is empty, and a
// CARDINALITY_VIOLATION error as soon as a second value is seen.
func singleSlot[T any](s *Sequence[T], op string) (slot Slot[T], err error) {
	c := s.create()
	defer closeInto(c, &err)
	if slot, err = c.Next(); err != nil || !slot.present {
		return slot, err
	}
	second, err := c.Next()
	if err != nil {
		return Absent[T](), err
	}
	if second.present {
		return Absent[T](), errors.CardinalityViolation(op)
	}
	return slot, nil
}

// Single returns the only value. It fails with EMPTY_SEQUENCE when s is
// empty and with CARDINALITY_VIOLATION when s has more than one value.
func Single[T any](s *Sequence[T]) (T, error) {
	slot, err := singleSlot(s, "single")
	return required(slot, err, "single")
}

// SingleOrDefault returns the only value, or def when s is empty. It still
// fails with CARDINALITY_VIOLATION when s has more than one value.
func SingleOrDefault[T any](s *Sequence[T], def T) (T, error) {
	slot, err := singleSlot(s, "single_or_default")
	return orDefault(slot, err, def)
}

// ElementAtSlot returns the value at the zero-based index, or Absent when
// the index is negative or past the end.
func ElementAtSlot[T any](s *Sequence[T], index int) (slot Slot[T], err error) {
	if index < 0 {
		return Absent[T](), nil
	}
	c := s.create()
	defer closeInto(c, &err)
	i := 0
	err = each(c, func(v T) bool {
		if i == index {
			slot = Present(v)
			return false
		}
		i++
		return true
	})
	if err != nil {
		return Absent[T](), err
	}
	return slot, nil
}

// ElementAt returns the value at the zero-based index. It fails with
// INDEX_OUT_OF_RANGE when the index is negative or past the end.
func ElementAt[T any](s *Sequence[T], index int) (T, error) {
	slot, err := ElementAtSlot(s, index)
	if err != nil {
		var zero T
		return zero, err
	}
	if !slot.present {
		var zero T
		return zero, errors.IndexOutOfRange("element_at", index)
	}
	return slot.value, nil
}

// ElementAtOrDefault returns the value at the zero-based index, or def when
// there is none.
func ElementAtOrDefault[T any](s *Sequence[T], index int, def T) (T, error) {
	slot, err := ElementAtSlot(s, index)
	return orDefault(slot, err, def)
}

// required turns an Absent slot into an EMPTY_SEQUENCE error.
func required[T any](slot Slot[T], err error, op string) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	if !slot.present {
		return slot.value, errors.EmptySequence(op)
	}
	return slot.value, nil
}

// orDefault turns an Absent slot into def.
func orDefault[T any](slot Slot[T], err error, def T) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	return slot.OrElse(def), nil
}

// --- Materializers ---

// ToList collects the values into a new slice. An empty s yields an empty,
// non-nil slice.
func ToList[T any](s *Sequence[T]) ([]T, error) {
	return ToArray(s, []T{})
}

// ToArray appends the values to dst[:0], reusing its capacity, and returns
// the result.
func ToArray[T any](s *Sequence[T], dst []T) (result []T, err error) {
	c := s.create()
	defer closeInto(c, &err)
	out := dst[:0]
	if err := each(c, func(v T) bool { out = append(out, v); return true }); err != nil {
		return nil, err
	}
	return out, nil
}

// ToSet collects the distinct values in encounter order.
func ToSet[T comparable](s *Sequence[T]) (*Set[T], error) {
	return AggregateSeed(s, NewSet[T](), func(set *Set[T], v T) *Set[T] {
		set.Add(v)
		return set
	})
}

// ToDictionary maps key(v) to v for every value. It fails with
// DUPLICATE_KEY, naming the key, at the first repeated key.
func ToDictionary[T any, K comparable](s *Sequence[T], key func(T) K) (*Dictionary[K, T], error) {
	return ToDictionarySelect(s, key, identity[T])
}

// ToDictionarySelect maps key(v) to value(v) for every value. It fails with
// DUPLICATE_KEY at the first repeated key.
func ToDictionarySelect[T any, K comparable, V any](s *Sequence[T], key func(T) K, value func(T) V) (result *Dictionary[K, V], err error) {
	c := s.create()
	defer closeInto(c, &err)
	d := NewDictionary[K, V]()
	var dup *errors.AppError
	err = each(c, func(v T) bool {
		k := key(v)
		if d.Contains(k) {
			dup = errors.DuplicateKey(k)
			return false
		}
		d.Put(k, value(v))
		return true
	})
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, dup
	}
	return d, nil
}

// ToLookup groups the values by key into a multimap.
func ToLookup[T any, K comparable](s *Sequence[T], key func(T) K) (result *Lookup[K, T], err error) {
	c := s.create()
	defer closeInto(c, &err)
	return drainLookup(c, key, identity[T])
}

// --- Comparison and iteration ---

// SequenceEqual reports whether both sequences hold equal values in the same
// order. Both cursors are closed on return.
func SequenceEqual[T comparable](a, b *Sequence[T]) (bool, error) {
	return SequenceEqualFunc(a, b, func(x, y T) bool { return x == y })
}

// SequenceEqualFunc is SequenceEqual with a custom equality.
func SequenceEqualFunc[T any](a, b *Sequence[T], eq func(x, y T) bool) (equal bool, err error) {
	left, right := a.create(), b.create()
	defer func() { err = stderrors.Join(err, closeAll(left, right)) }()
	for {
		x, err := left.Next()
		if err != nil {
			return false, err
		}
		y, err := right.Next()
		if err != nil {
			return false, err
		}
		if !x.present || !y.present {
			return x.present == y.present, nil
		}
		if !eq(x.value, y.value) {
			return false, nil
		}
	}
}

// ForEach calls fn for every value. It stops at the first error from fn and
// returns it.
func ForEach[T any](s *Sequence[T], fn func(T) error) (err error) {
	c := s.create()
	defer closeInto(c, &err)
	var fnErr error
	err = each(c, func(v T) bool {
		fnErr = fn(v)
		return fnErr == nil
	})
	if err != nil {
		return err
	}
	return fnErr
}
