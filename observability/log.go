package observability

import (
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/querykit/logger"
	"github.com/kbukum/querykit/query"
)

// Log writes a debug line when each cursor of s opens and when it is
// released. Every cursor gets its own id so interleaved cursors over the
// same sequence can be told apart. Failures are logged at warn level.
// A nil log uses the "query" component logger.
func Log[T any](s *query.Sequence[T], name string, log *logger.Logger) *query.Sequence[T] {
	return query.Observe(s, func() query.Hooks[T] {
		base := log
		if base == nil {
			base = logger.Get("query")
		}
		l := base.WithCursor(uuid.NewString())
		start := time.Now()
		state := query.StateClosed
		l.Debug("cursor opened", logger.Fields(logger.FieldOperator, name))

		return query.Hooks[T]{
			OnError: func(err error) {
				l.Warn("pull failed", logger.ErrorFields(name, err))
			},
			OnExhausted: func() { state = query.StateExhausted },
			OnClose: func(pulled int, err error) {
				if err != nil {
					l.Warn("cursor release failed", logger.ErrorFields(name, err))
				}
				fields := logger.CursorFields(name, pulled, state.String())
				fields[logger.FieldDuration] = time.Since(start).Milliseconds()
				l.Debug("cursor closed", fields)
			},
		}
	})
}
