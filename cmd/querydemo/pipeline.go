package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/kbukum/querykit/logger"
	"github.com/kbukum/querykit/observability"
	"github.com/kbukum/querykit/query"
)

// demo renders each query view of the configured range.
type demo struct {
	out     io.Writer
	log     *logger.Logger
	ctx     context.Context
	metrics *observability.QueryMetrics
}

func watch[T any](d *demo, s *query.Sequence[T], name string) *query.Sequence[T] {
	s = observability.Instrument(s, name,
		observability.WithContext(d.ctx),
		observability.WithMetrics(d.metrics))
	return observability.Log(s, name, d.log)
}

func (d *demo) run(src SourceConfig) error {
	numbers := watch(d, query.Range(src.Start, src.Count), "range")

	steps := []func(*query.Sequence[int], SourceConfig) error{
		d.labels,
		d.chunks,
		d.ordered,
		d.grouped,
		d.stats,
	}
	for _, step := range steps {
		if err := step(numbers, src); err != nil {
			return err
		}
	}
	return nil
}

// labels enumerates the same lazy pipeline twice; each pass re-reads the
// source.
func (d *demo) labels(numbers *query.Sequence[int], _ SourceConfig) error {
	evens := query.Filter(numbers, func(n int) bool { return n%2 == 0 })
	labels := watch(d, query.Map(evens, func(n int) string { return "a" + strconv.Itoa(n) }), "labels")
	for range 2 {
		got, err := query.ToList(labels)
		if err != nil {
			return fmt.Errorf("labels: %w", err)
		}
		fmt.Fprintf(d.out, "labels: %v\n", got)
	}
	return nil
}

func (d *demo) chunks(numbers *query.Sequence[int], src SourceConfig) error {
	return query.ForEach(watch(d, query.Chunk(numbers, src.ChunkSize), "chunk"), func(c []int) error {
		_, err := fmt.Fprintf(d.out, "chunk: %v\n", c)
		return err
	})
}

func (d *demo) ordered(numbers *query.Sequence[int], src SourceConfig) error {
	mod3 := func(n int) int { return n % 3 }
	var o *query.Ordered[int]
	if src.Order == "desc" {
		o = query.OrderByDescending(numbers, mod3)
	} else {
		o = query.OrderBy(numbers, mod3)
	}
	got, err := query.ToList(watch(d, query.ThenBy(o, func(n int) int { return n }).Sequence, "order"))
	if err != nil {
		return fmt.Errorf("order: %w", err)
	}
	fmt.Fprintf(d.out, "ordered: %v\n", got)
	return nil
}

func (d *demo) grouped(numbers *query.Sequence[int], _ SourceConfig) error {
	groups := watch(d, query.GroupBy(numbers, func(n int) int { return n % 3 }), "group")
	return query.ForEach(groups, func(g query.Grouping[int, int]) error {
		_, err := fmt.Fprintf(d.out, "group %d: %v\n", g.Key, g.Values)
		return err
	})
}

func (d *demo) stats(numbers *query.Sequence[int], _ SourceConfig) error {
	n, err := query.Count(numbers)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(d.out, "stats: empty")
		return nil
	}
	sum, err := query.Sum(numbers)
	if err != nil {
		return err
	}
	lo, err := query.Min(numbers)
	if err != nil {
		return err
	}
	hi, err := query.Max(numbers)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "stats: count=%d sum=%d min=%d max=%d\n", n, sum, lo, hi)
	return nil
}
