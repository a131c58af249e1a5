// Package query provides lazy, composable, pull-based sequence operators.
//
// A Sequence is a replayable description of a pipeline. Nothing runs until a
// Cursor is obtained and pulled, and each Cursor builds its own decorator
// chain, so one Sequence can be drained any number of times.
//
// # Cursor protocol
//
// A Cursor yields Slots: Present(v) or Absent. Peek computes and caches the
// next slot; Next consumes it. The first Absent returned by Next exhausts the
// cursor and releases everything it owns, so callers that drain a cursor need
// not close it. Close is idempotent and must be called when stopping early.
// Pulling an exhausted or closed cursor returns Absent.
//
// # Operators
//
// Streaming (constant state per cursor):
//
//   - Filter, Map, FlatMap, Tap, Observe
//   - Concat, Prepend, Append, Zip
//   - Skip, SkipWhile, Take, TakeWhile
//   - Cast, OfType, DefaultIfEmpty
//   - Distinct, DistinctBy, Union, UnionBy
//   - Chunk, SkipLast, TakeLast (bounded buffer)
//
// Buffering (drain a side before emitting):
//
//   - Intersect, IntersectBy, Except, ExceptBy (right side)
//   - Join, GroupJoin (right side)
//   - GroupBy, OrderBy and friends, Reverse (the whole input)
//
// Terminal operations create a cursor, drive it, and always close it. Plain
// names (First, Single, Min, Aggregate, ...) fail with an EMPTY_SEQUENCE
// error on empty input; the OrDefault and Slot variants never do.
//
// # Usage
//
//	evens := query.Filter(query.Range(1, 10), func(n int) bool { return n%2 == 0 })
//	labels := query.Map(evens, func(n int) string { return "a" + strconv.Itoa(n) })
//	got, err := query.ToList(labels)
//
// Ranging over a sequence closes its cursor on break:
//
//	for v, err := range labels.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(v)
//	}
package query
