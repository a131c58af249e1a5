// Package observability connects query sequences to OpenTelemetry and the
// structured logger.
//
// Tracing and metrics export:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("querydemo"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
//
// Instrumenting a sequence:
//
//	metrics, err := observability.NewQueryMetrics(observability.Meter("querydemo"))
//	seq = observability.Instrument(seq, "orders", observability.WithMetrics(metrics))
//	seq = observability.Log(seq, "orders", log)
//
// Both wrappers act per cursor, so a sequence enumerated twice produces two
// spans and two pairs of log lines.
package observability
