package main

import (
	"context"
	"errors"
	"time"

	"github.com/kbukum/querykit/observability"
)

const shutdownTimeout = 5 * time.Second

// setupTelemetry starts OTLP export when enabled. The returned function
// flushes and stops both providers.
func setupTelemetry(ctx context.Context, cfg *DemoConfig) (*observability.QueryMetrics, func() error, error) {
	noop := func() error { return nil }
	if !cfg.Telemetry.Enabled {
		return nil, noop, nil
	}

	tc := observability.DefaultTracerConfig(cfg.Name)
	tc.ServiceVersion = cfg.Version
	tc.Environment = cfg.Environment
	tc.Endpoint = cfg.Telemetry.Endpoint
	tc.Insecure = cfg.Telemetry.Insecure
	tc.SampleRate = cfg.Telemetry.SampleRate
	tp, err := observability.InitTracer(ctx, tc)
	if err != nil {
		return nil, noop, err
	}

	mc := observability.DefaultMeterConfig(cfg.Name)
	mc.ServiceVersion = cfg.Version
	mc.Environment = cfg.Environment
	mc.Endpoint = cfg.Telemetry.Endpoint
	mc.Insecure = cfg.Telemetry.Insecure
	mp, err := observability.InitMeter(ctx, &mc)
	if err != nil {
		return nil, noop, errors.Join(err, tp.Shutdown(ctx))
	}

	metrics, err := observability.NewQueryMetrics(observability.Meter(serviceName))
	shutdown := func() error {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(tp.Shutdown(sctx), mp.Shutdown(sctx))
	}
	if err != nil {
		return nil, noop, errors.Join(err, shutdown())
	}
	return metrics, shutdown, nil
}
