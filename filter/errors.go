package filter

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr/file"
)

// Error types for filter operations
type (
	// CompilationError indicates a filter expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Position   int // -1 if position is unknown
		Err        error
	}

	// EvaluationError indicates a filter could not be evaluated against a post
	EvaluationError struct {
		Expression string
		PostUUID   string
		Reason     string
		Err        error
	}
)

func newCompilationError(expression, reason string, err error) *CompilationError {
	ce := &CompilationError{
		Expression: expression,
		Reason:     reason,
		Position:   -1,
		Err:        err,
	}

	var fileErr *file.Error
	if errors.As(err, &fileErr) {
		ce.Position = fileErr.Column
		ce.Reason = fileErr.Message
	}
	return ce
}

func (e *CompilationError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("compilation error at position %d in '%s': %s", e.Position, e.Expression, e.Reason)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error for filter '%s' on post '%s': %s", e.Expression, e.PostUUID, e.Reason)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
