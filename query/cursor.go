package query

import (
	stderrors "errors"
	"iter"

	"github.com/kbukum/querykit/errors"
)

// State is the lifecycle position of a Cursor.
type State int

const (
	// StateFresh means no slot is cached; the next pull computes one.
	StateFresh State = iota
	// StatePeeked means a slot was computed by Peek and is cached.
	StatePeeked
	// StateExhausted means an Absent slot was returned by Next and the
	// cursor released its resources.
	StateExhausted
	// StateClosed means Close was called or a pull failed.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StatePeeked:
		return "peeked"
	case StateExhausted:
		return "exhausted"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// fetcher is what every operator implements. fetch computes the next slot
// from upstream; release closes everything the operator owns. The Cursor
// guarantees release runs at most once and fetch is never called after it.
type fetcher[T any] interface {
	fetch() (Slot[T], error)
	release() error
}

// Cursor is a single-use, forward-only pull handle over a sequence.
//
// A Cursor is not safe for concurrent use. Callers that fully drain a cursor
// with Next need not call Close; callers that stop early must.
type Cursor[T any] struct {
	src   fetcher[T]
	state State
	head  Slot[T]
}

func newCursor[T any](src fetcher[T]) *Cursor[T] {
	return &Cursor[T]{src: src}
}

// NewCursor builds a cursor from a pull function and a release function.
// pull returns Absent when the source has no more values. release may be
// nil when there is nothing to free.
func NewCursor[T any](pull func() (Slot[T], error), release func() error) *Cursor[T] {
	return newCursor[T](&funcSource[T]{pull: pull, closer: release})
}

// State returns the cursor's lifecycle state.
func (c *Cursor[T]) State() State { return c.state }

// Peek returns the next slot without consuming it. Repeated calls return the
// same slot without touching upstream.
func (c *Cursor[T]) Peek() (Slot[T], error) {
	switch c.state {
	case StatePeeked:
		return c.head, nil
	case StateExhausted, StateClosed:
		return Absent[T](), nil
	}
	s, err := c.src.fetch()
	if err != nil {
		return Absent[T](), c.fail(err)
	}
	c.head, c.state = s, StatePeeked
	return s, nil
}

// Next consumes and returns the next slot. When the slot is Absent the
// cursor becomes exhausted and releases its resources; any release failure
// is returned alongside the Absent slot.
func (c *Cursor[T]) Next() (Slot[T], error) {
	var s Slot[T]
	switch c.state {
	case StatePeeked:
		s, c.head, c.state = c.head, Slot[T]{}, StateFresh
	case StateExhausted, StateClosed:
		return Absent[T](), nil
	default:
		var err error
		if s, err = c.src.fetch(); err != nil {
			return Absent[T](), c.fail(err)
		}
	}
	if !s.present {
		c.state = StateExhausted
		return s, c.src.release()
	}
	return s, nil
}

// Close releases the cursor's resources. It is idempotent: only the first
// call on a live cursor runs the release logic, later calls return nil.
func (c *Cursor[T]) Close() error {
	if c == nil {
		return nil
	}
	if c.state == StateExhausted || c.state == StateClosed {
		return nil
	}
	c.state, c.head = StateClosed, Slot[T]{}
	return c.src.release()
}

// fail closes the cursor after a pull error and reports both failures.
func (c *Cursor[T]) fail(err error) error {
	return stderrors.Join(err, c.Close())
}

// All adapts the cursor to a range-over-func iterator. The cursor is closed
// when the loop ends, including on break. A failed pull is yielded once as
// a non-nil error with the zero value.
func (c *Cursor[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer c.Close()
		for {
			s, err := c.Next()
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !s.present {
				return
			}
			if !yield(s.value, nil) {
				return
			}
		}
	}
}

type funcSource[T any] struct {
	pull   func() (Slot[T], error)
	closer func() error
}

func (f *funcSource[T]) fetch() (Slot[T], error) { return f.pull() }

func (f *funcSource[T]) release() error {
	if f.closer == nil {
		return nil
	}
	if err := f.closer(); err != nil {
		return errors.CloseFailed(err)
	}
	return nil
}

// closer is anything owned by a composite cursor.
type closer interface {
	Close() error
}

// closeAll closes every owned cursor in order. A failure never stops the
// remaining closes; all failures are joined.
func closeAll(cs ...closer) error {
	var errs []error
	for _, c := range cs {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
