package reconcile

import (
	"errors"
	"fmt"

	"github.com/loomkit/loom/internal/tree"
)

// ContractError reports a user-visible contract violation detected while
// diffing. The diff engine validates shape up front and never catches
// exceptions from malformed input; the error carries enough context to
// name the offending parent position.
type ContractError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ParentTag and ParentType locate the parent whose children were
	// being reconciled.
	ParentTag  string
	ParentType string
}

// ErrorCode categorizes contract errors.
type ErrorCode string

const (
	// ErrCodeInvalidChild indicates a child value with no recognized
	// variant: not nil, not a primitive, not a description.
	ErrCodeInvalidChild ErrorCode = "INVALID_CHILD"

	// ErrCodeUndefinedRender indicates a component-defining position that
	// yielded nothing at all, as opposed to an explicit empty render.
	ErrCodeUndefinedRender ErrorCode = "UNDEFINED_RENDER"
)

// Error implements the error interface.
func (e *ContractError) Error() string {
	if e.ParentType != "" {
		return fmt.Sprintf("%s: %s (parent=%s %s)", e.Code, e.Message, e.ParentTag, e.ParentType)
	}
	return fmt.Sprintf("%s: %s (parent=%s)", e.Code, e.Message, e.ParentTag)
}

// IsInvalidChild reports whether err is an invalid-child contract error.
// Uses errors.As to handle wrapped errors.
func IsInvalidChild(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce) && ce.Code == ErrCodeInvalidChild
}

// IsUndefinedRender reports whether err is an undefined-render contract
// error. Uses errors.As to handle wrapped errors.
func IsUndefinedRender(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce) && ce.Code == ErrCodeUndefinedRender
}

func newInvalidChildError(parent *tree.Node, child any) *ContractError {
	return &ContractError{
		Code:       ErrCodeInvalidChild,
		Message:    fmt.Sprintf("child of type %T is not a valid description", child),
		ParentTag:  parent.Tag.String(),
		ParentType: parent.Type,
	}
}

func newUndefinedRenderError(parent *tree.Node) *ContractError {
	return &ContractError{
		Code:       ErrCodeUndefinedRender,
		Message:    "render yielded no result; return nil to render nothing",
		ParentTag:  parent.Tag.String(),
		ParentType: parent.Type,
	}
}
