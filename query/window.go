package query

import (
	"slices"
	"strconv"

	"github.com/kbukum/querykit/errors"
)

// Chunk groups values into slices of up to size values. The last slice is
// shorter when the values run out; it is omitted when empty. Each emitted
// slice is freshly allocated. A size below one fails the first pull with a
// CONTRACT_MISUSE error.
func Chunk[T any](s *Sequence[T], size int) *Sequence[[]T] {
	return New(func() *Cursor[[]T] {
		return newCursor[[]T](&chunkIter[T]{source: s.create(), size: size})
	})
}

// TakeLast yields the last n values. Upstream is consumed in one pass with
// at most n values buffered. n below one yields nothing.
func TakeLast[T any](s *Sequence[T], n int) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&takeLastIter[T]{source: s.create(), ring: newRing[T](n)})
	})
}

// SkipLast yields all but the last n values, keeping at most n values
// buffered. n below one passes every value through.
func SkipLast[T any](s *Sequence[T], n int) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&skipLastIter[T]{source: s.create(), ring: newRing[T](n)})
	})
}

// Reverse yields values back to front. Upstream is drained on the first
// pull.
func Reverse[T any](s *Sequence[T]) *Sequence[T] {
	return New(func() *Cursor[T] {
		return newCursor[T](&reverseIter[T]{source: s.create()})
	})
}

// maxChunkPrealloc bounds the capacity reserved up front for a chunk; larger
// chunks grow by append.
const maxChunkPrealloc = 64

type chunkIter[T any] struct {
	source *Cursor[T]
	size   int
}

func (it *chunkIter[T]) fetch() (Slot[[]T], error) {
	if it.size < 1 {
		return Absent[[]T](), errors.ContractMisuse("chunk", "size must be positive, got "+strconv.Itoa(it.size))
	}
	batch := make([]T, 0, min(it.size, maxChunkPrealloc))
	for len(batch) < it.size {
		v, err := it.source.Next()
		if err != nil {
			return Absent[[]T](), err
		}
		if !v.present {
			break
		}
		batch = append(batch, v.value)
	}
	if len(batch) == 0 {
		return Absent[[]T](), nil
	}
	return Present(batch), nil
}

func (it *chunkIter[T]) release() error { return it.source.Close() }

type takeLastIter[T any] struct {
	source *Cursor[T]
	ring   *ring[T]
	loaded bool
}

func (it *takeLastIter[T]) fetch() (Slot[T], error) {
	if !it.loaded {
		for {
			v, err := it.source.Next()
			if err != nil {
				return Absent[T](), err
			}
			if !v.present {
				break
			}
			it.ring.push(v.value)
		}
		it.loaded = true
	}
	if v, ok := it.ring.pop(); ok {
		return Present(v), nil
	}
	return Absent[T](), nil
}

func (it *takeLastIter[T]) release() error { return it.source.Close() }

type skipLastIter[T any] struct {
	source *Cursor[T]
	ring   *ring[T]
}

func (it *skipLastIter[T]) fetch() (Slot[T], error) {
	for {
		v, err := it.source.Next()
		if err != nil || !v.present {
			return v, err
		}
		if evicted, full := it.ring.push(v.value); full {
			return Present(evicted), nil
		}
	}
}

func (it *skipLastIter[T]) release() error { return it.source.Close() }

type reverseIter[T any] struct {
	source *Cursor[T]
	buf    []T
	loaded bool
}

func (it *reverseIter[T]) fetch() (Slot[T], error) {
	if !it.loaded {
		buf, err := drainSlice(it.source)
		if err != nil {
			return Absent[T](), err
		}
		it.buf, it.loaded = buf, true
	}
	n := len(it.buf)
	if n == 0 {
		return Absent[T](), nil
	}
	v := it.buf[n-1]
	it.buf = it.buf[:n-1]
	return Present(v), nil
}

func (it *reverseIter[T]) release() error { return it.source.Close() }

// ring is a bounded FIFO that overwrites its oldest value when full. Its
// storage grows on demand up to size, so a large bound over a short
// source costs only what is stored.
type ring[T any] struct {
	buf   []T
	size  int
	head  int
	count int
}

func newRing[T any](n int) *ring[T] {
	return &ring[T]{size: max(n, 0)}
}

// push appends v. When the ring was already full the oldest value is
// overwritten and returned with full set; a zero-size ring hands v
// straight back.
func (r *ring[T]) push(v T) (evicted T, full bool) {
	if r.size == 0 {
		return v, true
	}
	switch {
	case r.count < len(r.buf):
		r.buf[(r.head+r.count)%len(r.buf)] = v
		r.count++
		return evicted, false
	case len(r.buf) < r.size:
		if r.head != 0 {
			r.buf = slices.Concat(r.buf[r.head:], r.buf[:r.head])
			r.head = 0
		}
		r.buf = append(r.buf, v)
		r.count++
		return evicted, false
	}
	evicted = r.buf[r.head]
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
	return evicted, true
}

// pop removes and returns the oldest value.
func (r *ring[T]) pop() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	v := r.buf[r.head]
	r.buf[r.head] = zero
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return v, true
}
