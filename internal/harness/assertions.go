package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		switch event.Type {
		case EventInvocation:
			fmt.Fprintf(&buf, "  [%d] %s %v -> %s\n", event.Seq, event.Target, event.Args, event.Outcome)
		case EventCallback:
			fmt.Fprintf(&buf, "  [%d] callback %q\n", event.Seq, event.Message)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns one message per
// failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(result.Trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(result.Trace, a)
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a)
	case AssertCallbacks:
		return assertCallbacks(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertTraceContains checks for an invocation of the target. When args are
// given they must equal the invocation's args.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if event.Type != EventInvocation || event.Target != a.Target {
			continue
		}
		if len(a.Args) == 0 || slices.Equal(event.Args, a.Args) {
			return nil
		}
	}

	expected := a.Target
	if len(a.Args) > 0 {
		expected = fmt.Sprintf("%s with args %v", a.Target, a.Args)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that targets are first invoked in the given
// order. Intervening invocations are allowed.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if event.Type != EventInvocation {
			continue
		}
		if _, seen := positions[event.Target]; !seen {
			positions[event.Target] = i + 1 // 1-indexed for readability
		}
	}

	for _, target := range a.Targets {
		if positions[target] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all targets present: %v", a.Targets),
				Actual:   fmt.Sprintf("missing target: %s", target),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Targets); i++ {
		prev, curr := a.Targets[i-1], a.Targets[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("targets in order: %v", a.Targets),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that the target is invoked exactly count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Type == EventInvocation && event.Target == a.Target {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Target),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertCallbacks checks the recorded callback messages, in order.
func assertCallbacks(result *Result, a Assertion) error {
	got := result.Callbacks()
	if slices.Equal(got, a.Messages) {
		return nil
	}
	return &AssertionError{
		Type:     AssertCallbacks,
		Expected: fmt.Sprintf("callbacks %q", a.Messages),
		Actual:   fmt.Sprintf("callbacks %q", got),
		Trace:    result.Trace,
	}
}
