package engine

import (
	"errors"
	"fmt"

	"github.com/littletreezlx/learn-x/internal/coerce"
	"github.com/littletreezlx/learn-x/internal/ir"
	"github.com/littletreezlx/learn-x/internal/registry"
)

// Error is an invocation failure in the bridge's error taxonomy.
//
// Kinds:
//   - UsageError: malformed boundary call (too few tokens)
//   - ClassNotFound / MethodNotFound: resolution failed
//   - BadArgument: an argument token failed coercion
//   - ExecutionError: the callable returned an error or panicked
type Error struct {
	// Kind identifies the failure category.
	Kind ir.ErrorKind

	// Message is a human-readable description.
	Message string

	// Target is "namespace.method" when known.
	Target string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewUsageError creates an Error for a malformed boundary call.
func NewUsageError(message string) *Error {
	return &Error{Kind: ir.ErrUsage, Message: message}
}

// KindOf returns the failure kind of err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) ir.ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsUsageError returns true if err is a usage error.
func IsUsageError(err error) bool {
	return KindOf(err) == ir.ErrUsage
}

// OutcomeError converts a failure outcome into an *Error. Returns nil for
// Value and Void outcomes.
func OutcomeError(o ir.Outcome) error {
	if o.Kind != ir.OutcomeFailure || o.Failure == nil {
		return nil
	}
	return &Error{Kind: o.Failure.Kind, Message: o.Failure.Message}
}

// resolutionError maps a registry error onto the taxonomy.
func resolutionError(req ir.InvocationRequest, err error) *Error {
	kind := ir.ErrExecution
	switch {
	case registry.IsClassNotFound(err):
		kind = ir.ErrClassNotFound
	case registry.IsMethodNotFound(err):
		kind = ir.ErrMethodNotFound
	}
	return &Error{Kind: kind, Message: err.Error(), Target: req.Target(), Err: err}
}

func badArgumentError(req ir.InvocationRequest, err error) *Error {
	msg := fmt.Sprintf("bad argument for %s: %v", req.Target(), err)
	if coerce.IsNotANumber(err) {
		var ce *coerce.Error
		if errors.As(err, &ce) {
			msg = fmt.Sprintf("bad argument for %s: argument %d: %q is not a valid %s", req.Target(), ce.Position, ce.Token, ce.Type)
		}
	}
	return &Error{Kind: ir.ErrBadArgument, Message: msg, Target: req.Target(), Err: err}
}

func executionError(req ir.InvocationRequest, err error) *Error {
	return &Error{
		Kind:    ir.ErrExecution,
		Message: fmt.Sprintf("%s failed: %v", req.Target(), err),
		Target:  req.Target(),
		Err:     err,
	}
}

func panicError(req ir.InvocationRequest, recovered any) *Error {
	return &Error{
		Kind:    ir.ErrExecution,
		Message: fmt.Sprintf("%s panicked: %v", req.Target(), recovered),
		Target:  req.Target(),
	}
}

// outcome converts the error into a Failure outcome.
func (e *Error) outcome() ir.Outcome {
	return ir.FailureOutcome(e.Kind, e.Message)
}
