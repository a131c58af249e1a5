package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/querykit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric instrument names.
const (
	MetricCursorsOpened  = "query.cursors.opened"
	MetricCursorsActive  = "query.cursors.active"
	MetricElementsPulled = "query.elements.pulled"
	MetricErrors         = "query.errors"
)

// QueryMetrics holds the instruments recorded for instrumented cursors.
// A nil *QueryMetrics records nothing.
type QueryMetrics struct {
	cursorsOpened  metric.Int64Counter
	cursorsActive  metric.Int64UpDownCounter
	elementsPulled metric.Int64Counter
	errorTotal     metric.Int64Counter
}

// NewQueryMetrics creates the query instruments on the given meter.
func NewQueryMetrics(meter metric.Meter) (*QueryMetrics, error) {
	cursorsOpened, err := meter.Int64Counter(MetricCursorsOpened,
		metric.WithDescription("Total number of cursors opened"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricCursorsOpened, err)
	}

	cursorsActive, err := meter.Int64UpDownCounter(MetricCursorsActive,
		metric.WithDescription("Number of cursors opened and not yet released"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricCursorsActive, err)
	}

	elementsPulled, err := meter.Int64Counter(MetricElementsPulled,
		metric.WithDescription("Total number of elements pulled through cursors"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricElementsPulled, err)
	}

	errorTotal, err := meter.Int64Counter(MetricErrors,
		metric.WithDescription("Total pull and close failures by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrors, err)
	}

	return &QueryMetrics{
		cursorsOpened:  cursorsOpened,
		cursorsActive:  cursorsActive,
		elementsPulled: elementsPulled,
		errorTotal:     errorTotal,
	}, nil
}

// CursorOpened records a new cursor for the operator.
func (m *QueryMetrics) CursorOpened(ctx context.Context, operator string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrOperator, operator))
	m.cursorsOpened.Add(ctx, 1, attrs)
	m.cursorsActive.Add(ctx, 1, attrs)
}

// CursorClosed records a released cursor and the elements it produced.
func (m *QueryMetrics) CursorClosed(ctx context.Context, operator string, pulled int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrOperator, operator))
	m.cursorsActive.Add(ctx, -1, attrs)
	m.elementsPulled.Add(ctx, int64(pulled), attrs)
}

// RecordError records a failure by operator and error code.
func (m *QueryMetrics) RecordError(ctx context.Context, operator, code string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrOperator, operator),
		attribute.String(AttrErrorCode, code),
	))
}
