// Package catalog provides standardized error types for catalog reads.
package catalog

import (
	"errors"
	"fmt"
)

// Standard catalog error types that all implementations should use.
var (
	// ErrTemplateNotFound indicates no template exists for the given identifier.
	ErrTemplateNotFound = errors.New("workflow template not found")

	// ErrStageNotFound indicates a stage was not found by the given identifier.
	ErrStageNotFound = errors.New("stage not found")

	// ErrDuplicateStageOrder indicates two stages in one template share an
	// order value, which leaves the pipeline sequence undefined.
	ErrDuplicateStageOrder = errors.New("duplicate stage order within template")

	// ErrInvalidDocument indicates a catalog document failed schema or
	// structural validation at load time.
	ErrInvalidDocument = errors.New("invalid catalog document")
)

// Error wraps catalog read failures with operation context.
type Error struct {
	Op  string // Operation being performed (e.g., "ActiveTemplates", "FieldsByStage")
	Key string // Lookup key if applicable
	Err error  // Underlying error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("catalog %s failed for %q: %v", e.Op, e.Key, e.Err)
	}

	return fmt.Sprintf("catalog %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a catalog error with operation context.
func NewError(op, key string, err error) *Error {
	return &Error{Op: op, Key: key, Err: err}
}

// IsTemplateNotFound checks if an error indicates a missing template.
func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

// IsStageNotFound checks if an error indicates a missing stage.
func IsStageNotFound(err error) bool {
	return errors.Is(err, ErrStageNotFound)
}

// IsDuplicateStageOrder checks if an error indicates a stage-order conflict.
func IsDuplicateStageOrder(err error) bool {
	return errors.Is(err, ErrDuplicateStageOrder)
}

// IsInvalidDocument checks if an error indicates a malformed catalog document.
func IsInvalidDocument(err error) bool {
	return errors.Is(err, ErrInvalidDocument)
}
