package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Protocol errors
const (
	// ErrCodeContractMisuse indicates an operator was used outside its contract
	// (for example a non-positive chunk size).
	ErrCodeContractMisuse ErrorCode = "CONTRACT_MISUSE"
	// ErrCodeCloseFailed indicates releasing one or more owned cursors failed.
	ErrCodeCloseFailed ErrorCode = "CLOSE_FAILED"
)

// Element errors
const (
	// ErrCodeEmptySequence indicates a terminal operation required at least one element.
	ErrCodeEmptySequence ErrorCode = "EMPTY_SEQUENCE"
	// ErrCodeCardinalityViolation indicates more than one element where at most one was allowed.
	ErrCodeCardinalityViolation ErrorCode = "CARDINALITY_VIOLATION"
	// ErrCodeIndexOutOfRange indicates an element index past the end of the sequence.
	ErrCodeIndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE"
	// ErrCodeClassMismatch indicates an element could not be converted to the requested type.
	ErrCodeClassMismatch ErrorCode = "CLASS_MISMATCH"
)

// Materialization errors
const (
	// ErrCodeDuplicateKey indicates a key selector produced the same key twice.
	ErrCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"
)

var elementCodes = map[ErrorCode]bool{
	ErrCodeEmptySequence:        true,
	ErrCodeCardinalityViolation: true,
	ErrCodeIndexOutOfRange:      true,
	ErrCodeClassMismatch:        true,
}

// IsElementCode returns true if the code describes a problem with the
// elements a sequence produced rather than with how it was used.
func IsElementCode(code ErrorCode) bool {
	return elementCodes[code]
}
