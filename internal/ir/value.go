package ir

import (
	"fmt"
	"time"
)

// OutcomeKind tags the variant held by an Outcome.
type OutcomeKind int

const (
	// OutcomeValue carries a non-void return value.
	OutcomeValue OutcomeKind = iota + 1
	// OutcomeVoid signals success without a value.
	OutcomeVoid
	// OutcomeFailure carries a Failure.
	OutcomeFailure
)

// String implements fmt.Stringer.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeValue:
		return "value"
	case OutcomeVoid:
		return "void"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// ErrorKind categorizes invocation failures.
type ErrorKind string

const (
	// ErrUsage is a malformed boundary call (too few tokens).
	ErrUsage ErrorKind = "USAGE_ERROR"

	// ErrClassNotFound indicates no namespace matched.
	ErrClassNotFound ErrorKind = "CLASS_NOT_FOUND"

	// ErrMethodNotFound indicates the namespace has no method with that name.
	ErrMethodNotFound ErrorKind = "METHOD_NOT_FOUND"

	// ErrBadArgument indicates an argument token failed coercion.
	ErrBadArgument ErrorKind = "BAD_ARGUMENT"

	// ErrExecution indicates the callable itself faulted.
	ErrExecution ErrorKind = "EXECUTION_ERROR"
)

// Failure is the failure payload of an Outcome.
type Failure struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Outcome is the normalized result of one invocation.
//
// Exactly one variant is populated: Value for OutcomeValue, Failure for
// OutcomeFailure, neither for OutcomeVoid. ID, Seq and Elapsed are stamped
// by the engine on every outcome, including failures.
type Outcome struct {
	Kind    OutcomeKind   `json:"kind"`
	Value   any           `json:"value,omitempty"`
	Failure *Failure      `json:"failure,omitempty"`
	ID      string        `json:"id,omitempty"`
	Seq     int64         `json:"seq,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns,omitempty"`
}

// ValueOutcome creates a Value outcome.
func ValueOutcome(v any) Outcome {
	return Outcome{Kind: OutcomeValue, Value: v}
}

// VoidOutcome creates a Void outcome.
func VoidOutcome() Outcome {
	return Outcome{Kind: OutcomeVoid}
}

// FailureOutcome creates a Failure outcome.
func FailureOutcome(kind ErrorKind, message string) Outcome {
	return Outcome{Kind: OutcomeFailure, Failure: &Failure{Kind: kind, Message: message}}
}

// OK reports whether the outcome is a success (Value or Void).
func (o Outcome) OK() bool {
	return o.Kind == OutcomeValue || o.Kind == OutcomeVoid
}

// Text renders the outcome for the caller: the value's textual form,
// "" for void, or the failure message.
func (o Outcome) Text() string {
	switch o.Kind {
	case OutcomeValue:
		return fmt.Sprint(o.Value)
	case OutcomeFailure:
		if o.Failure != nil {
			return o.Failure.Message
		}
	}
	return ""
}

// String implements fmt.Stringer for logs.
func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeValue:
		return fmt.Sprintf("Value(%v)", o.Value)
	case OutcomeVoid:
		return "Void"
	case OutcomeFailure:
		if o.Failure != nil {
			return fmt.Sprintf("Failure(%s, %s)", o.Failure.Kind, o.Failure.Message)
		}
		return "Failure"
	default:
		return "Outcome(?)"
	}
}
