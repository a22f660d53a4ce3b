package graph

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes graph construction and validation errors.
type ErrorCode string

const (
	// ErrCodeStructural indicates broken positional identity, a self or
	// forward operand reference, or a node variant carrying an operator it
	// cannot carry. A structural error means the node sequence was assembled
	// or tampered with outside the Factory.
	ErrCodeStructural ErrorCode = "STRUCTURAL"

	// ErrCodeArity indicates an operand count mismatch for the node's operator.
	ErrCodeArity ErrorCode = "ARITY"

	// ErrCodeTypeMismatch indicates an operand whose declared type does not
	// match the operator's signature at that position.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeQueryIndex indicates query indices that are non-dense or
	// duplicated across the graph's query nodes.
	ErrCodeQueryIndex ErrorCode = "QUERY_INDEX"

	// ErrCodeValue indicates a constant carrying a non-finite value.
	ErrCodeValue ErrorCode = "VALUE"

	// ErrCodeOutOfRange indicates a lookup or operand reference naming an
	// identifier the Factory has not issued yet.
	ErrCodeOutOfRange ErrorCode = "OUT_OF_RANGE"

	// ErrCodeFactoryConsumed indicates use of a Factory after Build.
	ErrCodeFactoryConsumed ErrorCode = "FACTORY_CONSUMED"
)

// GraphError represents an error detected during graph construction or
// validation. It carries the offending node's sequence number when the error
// is tied to one node, and structured details for diagnostics.
type GraphError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Sequence is the offending node's position, or -1 when the error is not
	// tied to a single node.
	Sequence int

	// Details contains additional context.
	Details map[string]string
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.Sequence >= 0 {
		return fmt.Sprintf("%s: %s (node=%d)", e.Code, e.Message, e.Sequence)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the ErrorCode from an error, unwrapping as needed.
// Returns the empty string if err is not a GraphError.
func CodeOf(err error) ErrorCode {
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// IsStructuralError reports whether err is a structural violation.
// Uses errors.As to handle wrapped errors.
func IsStructuralError(err error) bool { return CodeOf(err) == ErrCodeStructural }

// IsTypeError reports whether err is an operand type mismatch.
func IsTypeError(err error) bool { return CodeOf(err) == ErrCodeTypeMismatch }

// IsOutOfRangeError reports whether err names an identifier that does not
// exist yet.
func IsOutOfRangeError(err error) bool { return CodeOf(err) == ErrCodeOutOfRange }

// NewStructuralError creates a GraphError for a structural violation at seq.
func NewStructuralError(seq int, format string, args ...any) *GraphError {
	return &GraphError{
		Code:     ErrCodeStructural,
		Message:  fmt.Sprintf(format, args...),
		Sequence: seq,
	}
}

// NewArityError creates a GraphError for an operand count mismatch.
func NewArityError(seq int, op Operator, got, want int) *GraphError {
	return &GraphError{
		Code:     ErrCodeArity,
		Message:  fmt.Sprintf("%s takes %d operand(s), got %d", op, want, got),
		Sequence: seq,
		Details: map[string]string{
			"operator": op.String(),
			"got":      fmt.Sprintf("%d", got),
			"want":     fmt.Sprintf("%d", want),
		},
	}
}

// NewTypeError creates a GraphError for an operand type mismatch at operand
// position pos.
func NewTypeError(seq int, op Operator, pos int, got, want Type) *GraphError {
	return &GraphError{
		Code:     ErrCodeTypeMismatch,
		Message:  fmt.Sprintf("%s operand %d must be %s, got %s", op, pos, want, got),
		Sequence: seq,
		Details: map[string]string{
			"operator": op.String(),
			"operand":  fmt.Sprintf("%d", pos),
			"got":      got.String(),
			"want":     want.String(),
		},
	}
}

// NewQueryIndexError creates a GraphError for a non-dense query index.
func NewQueryIndexError(seq int, got, want int) *GraphError {
	return &GraphError{
		Code:     ErrCodeQueryIndex,
		Message:  fmt.Sprintf("query index %d out of order, want %d", got, want),
		Sequence: seq,
		Details: map[string]string{
			"got":  fmt.Sprintf("%d", got),
			"want": fmt.Sprintf("%d", want),
		},
	}
}

// NewValueError creates a GraphError for a non-finite constant value.
func NewValueError(seq int, value float64) *GraphError {
	return &GraphError{
		Code:     ErrCodeValue,
		Message:  fmt.Sprintf("constant value must be finite, got %v", value),
		Sequence: seq,
	}
}

// NewOutOfRangeError creates a GraphError for a reference to an identifier
// that does not exist. have is the number of identifiers issued so far.
func NewOutOfRangeError(id uint, have int) *GraphError {
	return &GraphError{
		Code:     ErrCodeOutOfRange,
		Message:  fmt.Sprintf("node %d does not exist (have %d node(s))", id, have),
		Sequence: -1,
		Details: map[string]string{
			"id":   fmt.Sprintf("%d", id),
			"have": fmt.Sprintf("%d", have),
		},
	}
}

// NewFactoryConsumedError creates a GraphError for use of a Factory after Build.
func NewFactoryConsumedError() *GraphError {
	return &GraphError{
		Code:     ErrCodeFactoryConsumed,
		Message:  "factory already consumed by Build; start a new Factory",
		Sequence: -1,
	}
}
