package observability

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/querykit/logger"
	"github.com/kbukum/querykit/query"
)

var errBoom = stderrors.New("boom")

func failing() *query.Sequence[int] {
	return query.New(func() *query.Cursor[int] {
		n := 0
		return query.NewCursor(func() (query.Slot[int], error) {
			n++
			if n > 1 {
				return query.Absent[int](), errBoom
			}
			return query.Present(n), nil
		}, nil)
	})
}

func newTracing(t *testing.T) (*tracetest.InMemoryExporter, InstrumentOption) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter, WithTracer(tp.Tracer("test"))
}

func newMetrics(t *testing.T) (*sdkmetric.ManualReader, *QueryMetrics) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := NewQueryMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewQueryMetrics: %v", err)
	}
	return reader, m
}

// sum returns the total of an int64 sum instrument across data points.
func sum(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			data, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s: unexpected data %T", name, m.Data)
			}
			for _, dp := range data.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func attrInt(attrs []attribute.KeyValue, key string) (int64, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.AsInt64(), true
		}
	}
	return 0, false
}

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 || !cfg.Insecure {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("svc", "1.2.3", "staging")
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	v, ok := res.Set().Value("environment")
	if !ok || v.AsString() != "staging" {
		t.Errorf("environment = %v", v)
	}
}

func TestInstrument_SpanPerCursor(t *testing.T) {
	exporter, withTracer := newTracing(t)
	s := Instrument(query.Range(1, 5), "range", withTracer)

	if _, err := query.ToList(s); err != nil {
		t.Fatalf("ToList: %v", err)
	}
	if _, err := query.First(s); err != nil {
		t.Fatalf("First: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	for i, want := range []int64{5, 1} {
		if spans[i].Name != SpanCursor {
			t.Errorf("span %d name = %q", i, spans[i].Name)
		}
		if got, _ := attrInt(spans[i].Attributes, AttrPulled); got != want {
			t.Errorf("span %d pulled = %d, want %d", i, got, want)
		}
		if spans[i].Status.Code == codes.Error {
			t.Errorf("span %d unexpectedly failed", i)
		}
	}
}

func TestInstrument_RecordsFailure(t *testing.T) {
	exporter, withTracer := newTracing(t)
	reader, metrics := newMetrics(t)
	s := Instrument(failing(), "failing", withTracer, WithMetrics(metrics))

	if _, err := query.ToList(s); !stderrors.Is(err, errBoom) {
		t.Fatalf("err = %v, want boom", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status.Code != codes.Error || spans[0].Status.Description != "boom" {
		t.Errorf("status = %+v", spans[0].Status)
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected an exception event")
	}
	if got := sum(t, reader, MetricErrors); got != 1 {
		t.Errorf("errors = %d, want 1", got)
	}
}

func TestInstrument_ErrorCode(t *testing.T) {
	exporter, withTracer := newTracing(t)
	s := Instrument(query.Chunk(query.Of(1), 0), "chunk", withTracer)
	if _, err := query.ToList(s); err == nil {
		t.Fatal("expected error")
	}
	events := exporter.GetSpans()[0].Events
	found := false
	for _, ev := range events {
		for _, kv := range ev.Attributes {
			if string(kv.Key) == AttrErrorCode && kv.Value.AsString() == "CONTRACT_MISUSE" {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("no CONTRACT_MISUSE code in events %+v", events)
	}
}

func TestInstrument_Metrics(t *testing.T) {
	reader, metrics := newMetrics(t)
	s := Instrument(query.Of("a", "b", "c"), "letters", WithMetrics(metrics))

	if _, err := query.Count(s); err != nil {
		t.Fatalf("Count: %v", err)
	}
	c := s.Cursor()
	if _, err := c.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got := sum(t, reader, MetricCursorsActive); got != 1 {
		t.Errorf("active with open cursor = %d, want 1", got)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := sum(t, reader, MetricCursorsOpened); got != 2 {
		t.Errorf("opened = %d, want 2", got)
	}
	if got := sum(t, reader, MetricCursorsActive); got != 0 {
		t.Errorf("active = %d, want 0", got)
	}
	if got := sum(t, reader, MetricElementsPulled); got != 4 {
		t.Errorf("pulled = %d, want 4", got)
	}
}

func TestQueryMetrics_Noop(t *testing.T) {
	metrics, err := NewQueryMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	ctx := context.Background()
	metrics.CursorOpened(ctx, "op")
	metrics.CursorClosed(ctx, "op", 3)
	metrics.RecordError(ctx, "op", "EMPTY_SEQUENCE")

	var none *QueryMetrics
	none.CursorOpened(ctx, "op")
	none.CursorClosed(ctx, "op", 1)
	none.RecordError(ctx, "op", "X")
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("invalid json %q: %v", sc.Text(), err)
		}
		lines = append(lines, m)
	}
	return lines
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, &buf, "test")
	s := Log(query.Of(1, 2, 3), "numbers", l)

	if _, err := query.ToList(s); err != nil {
		t.Fatalf("ToList: %v", err)
	}
	if _, err := query.First(s); err != nil {
		t.Fatalf("First: %v", err)
	}

	lines := logLines(t, &buf)
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if lines[0]["message"] != "cursor opened" || lines[0][logger.FieldOperator] != "numbers" {
		t.Errorf("open line = %v", lines[0])
	}
	if lines[1]["message"] != "cursor closed" || lines[1][logger.FieldPulled] != float64(3) || lines[1][logger.FieldState] != "exhausted" {
		t.Errorf("drained close line = %v", lines[1])
	}
	if lines[3][logger.FieldPulled] != float64(1) || lines[3][logger.FieldState] != "closed" {
		t.Errorf("early close line = %v", lines[3])
	}
	if lines[0][logger.FieldCursorID] != lines[1][logger.FieldCursorID] {
		t.Error("open and close lines of one cursor have different ids")
	}
	if lines[0][logger.FieldCursorID] == lines[2][logger.FieldCursorID] {
		t.Error("two cursors share an id")
	}
}

func TestLog_Failure(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&logger.Config{Level: "warn", Format: logger.FormatJSON}, &buf, "test")

	if _, err := query.ToList(Log(failing(), "failing", l)); !stderrors.Is(err, errBoom) {
		t.Fatalf("err = %v", err)
	}
	lines := logLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0]["message"] != "pull failed" || lines[0][logger.FieldError] != "boom" {
		t.Errorf("line = %v", lines[0])
	}
}
