package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldOperator  = "operator"
	FieldCursorID  = "cursor_id"
	FieldPulled    = "pulled"
	FieldState     = "state"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields builds a map from alternating key-value pairs. Pairs with a
// non-string key are skipped.
//
//	log.Info("drained", logger.Fields(logger.FieldPulled, 42))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// CursorFields describes a cursor at the end of its life.
func CursorFields(operator string, pulled int, state string) map[string]any {
	return map[string]any{
		FieldOperator: operator,
		FieldPulled:   pulled,
		FieldState:    state,
	}
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(operator string, err error) map[string]any {
	return map[string]any{
		FieldOperator: operator,
		FieldError:    err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(operator string, d time.Duration) map[string]any {
	return map[string]any{
		FieldOperator: operator,
		FieldDuration: d.Milliseconds(),
	}
}
