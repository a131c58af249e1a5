package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/querykit/errors"
	"github.com/kbukum/querykit/query"
)

type instrumentOptions struct {
	ctx     context.Context
	tracer  trace.Tracer
	metrics *QueryMetrics
}

// InstrumentOption configures Instrument.
type InstrumentOption func(*instrumentOptions)

// WithContext sets the parent context for cursor spans.
func WithContext(ctx context.Context) InstrumentOption {
	return func(o *instrumentOptions) { o.ctx = ctx }
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) InstrumentOption {
	return func(o *instrumentOptions) { o.tracer = t }
}

// WithMetrics records cursor metrics on m.
func WithMetrics(m *QueryMetrics) InstrumentOption {
	return func(o *instrumentOptions) { o.metrics = m }
}

// Instrument traces every cursor of s. Each cursor gets one span that starts
// when the cursor is created and ends when it is released, carrying the
// operator name and the number of elements pulled. Pull and close failures
// are recorded on the span and counted in metrics.
//
// A cursor that is neither drained nor closed never ends its span.
func Instrument[T any](s *query.Sequence[T], name string, opts ...InstrumentOption) *query.Sequence[T] {
	o := instrumentOptions{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracer == nil {
		o.tracer = Tracer(instrumentationName)
	}

	return query.Observe(s, func() query.Hooks[T] {
		ctx, span := o.tracer.Start(o.ctx, SpanCursor,
			trace.WithAttributes(attribute.String(AttrOperator, name)))
		o.metrics.CursorOpened(ctx, name)

		fail := func(err error) {
			code := errorCode(err)
			span.RecordError(err, trace.WithAttributes(attribute.String(AttrErrorCode, code)))
			span.SetStatus(codes.Error, err.Error())
			o.metrics.RecordError(ctx, name, code)
		}

		return query.Hooks[T]{
			OnError: fail,
			OnClose: func(pulled int, err error) {
				if err != nil {
					fail(err)
				}
				span.SetAttributes(attribute.Int(AttrPulled, pulled))
				o.metrics.CursorClosed(ctx, name, pulled)
				span.End()
			},
		}
	})
}

func errorCode(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "UNKNOWN"
}
