package query

import (
	"strings"
	"testing"
)

type person struct {
	name string
	age  int
}

var people = []person{
	{"carol", 35},
	{"alice", 30},
	{"bob", 30},
	{"dave", 25},
	{"erin", 35},
}

func names(ps []person) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.name
	}
	return out
}

func TestOrderBy(t *testing.T) {
	age := func(p person) int { return p.age }
	name := func(p person) string { return p.name }

	tests := []struct {
		name string
		seq  *Ordered[person]
		want []string
	}{
		{"ascending is stable", OrderBy(FromSlice(people), age), []string{"dave", "alice", "bob", "carol", "erin"}},
		{"descending is stable", OrderByDescending(FromSlice(people), age), []string{"carol", "erin", "alice", "bob", "dave"}},
		{"then by", ThenBy(OrderByDescending(FromSlice(people), age), name), []string{"carol", "erin", "alice", "bob", "dave"}},
		{"then by descending", ThenByDescending(OrderBy(FromSlice(people), age), name), []string{"dave", "bob", "alice", "erin", "carol"}},
		{"func", OrderByFunc(FromSlice(people), func(a, b person) int { return strings.Compare(a.name, b.name) }), []string{"alice", "bob", "carol", "dave", "erin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertSlice(t, names(collect(t, tt.seq.Sequence)), tt.want)
		})
	}
}

func TestOrderBy_ThenByDoesNotAlterParent(t *testing.T) {
	byAge := OrderBy(FromSlice(people), func(p person) int { return p.age })
	_ = ThenByDescending(byAge, func(p person) string { return p.name })
	assertSlice(t, names(collect(t, byAge.Sequence)), []string{"dave", "alice", "bob", "carol", "erin"})
}

func TestOrderBy_Lazy(t *testing.T) {
	tr := newTracked(3, 1, 2)
	s := OrderBy(tr.seq, func(n int) int { return n })
	if tr.opens != 0 {
		t.Fatal("source opened before first pull")
	}
	assertSlice(t, collect(t, s.Sequence), []int{1, 2, 3})
	assertClosedOnce(t, tr)
}
