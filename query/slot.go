package query

import "fmt"

// Slot is the unit passed between pipeline stages: either Present with
// exactly one value, or Absent. The zero Slot is Absent.
//
// An Absent slot always holds the zero value of T, so for comparable T two
// slots compare equal with == iff both are Absent or both are Present with
// equal values. Set operators rely on this.
type Slot[T any] struct {
	value   T
	present bool
}

// Present returns a slot holding v.
func Present[T any](v T) Slot[T] {
	return Slot[T]{value: v, present: true}
}

// Absent returns the empty slot.
func Absent[T any]() Slot[T] {
	return Slot[T]{}
}

// IsPresent reports whether the slot holds a value.
func (s Slot[T]) IsPresent() bool { return s.present }

// IsAbsent reports whether the slot is empty.
func (s Slot[T]) IsAbsent() bool { return !s.present }

// Get returns the value and whether it was present.
func (s Slot[T]) Get() (T, bool) { return s.value, s.present }

// Value returns the held value, or the zero value when Absent.
func (s Slot[T]) Value() T { return s.value }

// OrElse returns the held value, or def when Absent.
func (s Slot[T]) OrElse(def T) T {
	if s.present {
		return s.value
	}
	return def
}

func (s Slot[T]) String() string {
	if !s.present {
		return "Absent"
	}
	return fmt.Sprintf("Present(%v)", s.value)
}

// SlotEqual reports whether a and b are both Absent, or both Present with
// equal values.
func SlotEqual[T comparable](a, b Slot[T]) bool {
	return a == b
}
