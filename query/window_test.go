package query

import (
	"math"
	"testing"

	qerrors "github.com/kbukum/querykit/errors"
)

func TestChunk(t *testing.T) {
	chunks := collect(t, Chunk(Range(1, 7), 3))
	want := [][]int{{1, 2, 3}, {4, 5, 6}, {7}}
	if len(chunks) != len(want) {
		t.Fatalf("got %v, want %v", chunks, want)
	}
	for i := range want {
		assertSlice(t, chunks[i], want[i])
	}
}

func TestChunk_FreshSlices(t *testing.T) {
	chunks := collect(t, Chunk(Range(1, 4), 2))
	chunks[0][0] = 99
	if chunks[1][0] != 3 {
		t.Errorf("chunks share storage: %v", chunks)
	}
}

func TestChunk_Empty(t *testing.T) {
	if got := collect(t, Chunk(Empty[int](), 3)); len(got) != 0 {
		t.Errorf("got %v, want no chunks", got)
	}
}

func TestChunk_InvalidSize(t *testing.T) {
	tr := newTracked(1, 2)
	_, err := ToList(Chunk(tr.seq, 0))
	if !qerrors.IsCode(err, qerrors.ErrCodeContractMisuse) {
		t.Fatalf("err = %v, want CONTRACT_MISUSE", err)
	}
	if tr.pulls != 0 {
		t.Errorf("pulls = %d, want 0", tr.pulls)
	}
	assertClosedOnce(t, tr)
}

func TestTakeLastSkipLast(t *testing.T) {
	abc := Of("a", "b", "c")
	tests := []struct {
		name string
		seq  *Sequence[string]
		want []string
	}{
		{"skip last covering all", SkipLast(abc, 3), nil},
		{"take last covering all", TakeLast(abc, 3), []string{"a", "b", "c"}},
		{"skip last longer than input", SkipLast(abc, 5), nil},
		{"take last longer than input", TakeLast(abc, 5), []string{"a", "b", "c"}},
		{"skip last one", SkipLast(abc, 1), []string{"a", "b"}},
		{"take last two", TakeLast(abc, 2), []string{"b", "c"}},
		{"skip last zero", SkipLast(abc, 0), []string{"a", "b", "c"}},
		{"take last zero", TakeLast(abc, 0), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertSlice(t, collect(t, tt.seq), tt.want)
		})
	}
}

func TestTakeLast_SinglePass(t *testing.T) {
	tr := newTracked(1, 2, 3, 4, 5)
	assertSlice(t, collect(t, TakeLast(tr.seq, 2)), []int{4, 5})
	assertSlice(t, collect(t, SkipLast(tr.seq, 2)), []int{1, 2, 3})
	if tr.opens != 2 {
		t.Errorf("opens = %d, want one per cursor", tr.opens)
	}
	assertClosedOnce(t, tr)
}

func TestWindow_HugeBounds(t *testing.T) {
	abc := Of(1, 2, 3)
	c := TakeLast(abc, math.MaxInt).Cursor()
	if err := c.Close(); err != nil {
		t.Fatalf("Close = %v", err)
	}
	assertSlice(t, collect(t, TakeLast(abc, math.MaxInt)), []int{1, 2, 3})
	assertSlice(t, collect(t, SkipLast(abc, math.MaxInt)), nil)

	chunks := collect(t, Chunk(abc, math.MaxInt))
	if len(chunks) != 1 {
		t.Fatalf("chunks = %v, want one", chunks)
	}
	assertSlice(t, chunks[0], []int{1, 2, 3})

	big := collect(t, Chunk(Range(0, 200), 150))
	if len(big) != 2 || len(big[0]) != 150 || len(big[1]) != 50 {
		t.Errorf("got %d chunks, want sizes 150 and 50", len(big))
	}
}

func TestRing_InterleavedPushPop(t *testing.T) {
	r := newRing[int](3)
	r.push(1)
	r.push(2)
	if v, ok := r.pop(); !ok || v != 1 {
		t.Fatalf("pop = %d, %v", v, ok)
	}
	r.push(3)
	r.push(4)
	if evicted, full := r.push(5); !full || evicted != 2 {
		t.Errorf("push(5) = %d, %v, want evicted 2", evicted, full)
	}
	var got []int
	for v, ok := r.pop(); ok; v, ok = r.pop() {
		got = append(got, v)
	}
	assertSlice(t, got, []int{3, 4, 5})
	if len(r.buf) > 3 {
		t.Errorf("buffer grew past its bound: %d", len(r.buf))
	}
}

func TestReverse(t *testing.T) {
	assertSlice(t, collect(t, Reverse(Of(1, 2, 3))), []int{3, 2, 1})
	if got := collect(t, Reverse(Empty[int]())); len(got) != 0 {
		t.Errorf("got %v", got)
	}
}
