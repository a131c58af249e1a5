// Package errors provides the structured error type raised by query
// operators and terminal operations.
//
// Every failure carries a machine-readable ErrorCode so callers can branch
// on the condition without string matching:
//
//	v, err := query.Single(seq)
//	if errors.IsCode(err, errors.ErrCodeCardinalityViolation) {
//	    // more than one element
//	}
package errors
