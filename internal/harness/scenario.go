package harness

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/littletreezlx/learn-x/internal/ir"
)

// Scenario is one YAML test scenario.
type Scenario struct {
	// Name identifies the scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Listener overrides the scheduler's delay and payload.
	Listener *ListenerOverride `yaml:"listener,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Assertions are evaluated against the trace after all steps.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ListenerOverride configures the scenario's scheduler.
type ListenerOverride struct {
	Delay   time.Duration `yaml:"delay,omitempty"`
	Payload string        `yaml:"payload,omitempty"`
}

// Step invokes a target or advances the clock. Exactly one of Invoke and
// Advance is set.
type Step struct {
	// Invoke is "namespace.method". The method is the text after the last dot.
	Invoke string `yaml:"invoke,omitempty"`

	// Args are the raw string tokens.
	Args []string `yaml:"args,omitempty"`

	// Callback attaches a recording callback to the invocation.
	Callback bool `yaml:"callback,omitempty"`

	// Expect is checked against the invocation's outcome.
	Expect *Expect `yaml:"expect,omitempty"`

	// Advance moves the manual clock forward, firing due notifications.
	Advance time.Duration `yaml:"advance,omitempty"`
}

// Expect describes the expected outcome of an invocation step.
type Expect struct {
	// Outcome is "value", "void" or "failure".
	Outcome string `yaml:"outcome"`

	// Text is compared with the value's text when set.
	Text string `yaml:"text,omitempty"`

	// Error is the failure kind, e.g. METHOD_NOT_FOUND.
	Error string `yaml:"error,omitempty"`
}

// Assertion is a check over the whole trace.
type Assertion struct {
	Type     string   `yaml:"type"`
	Target   string   `yaml:"target,omitempty"`
	Args     []string `yaml:"args,omitempty"`
	Targets  []string `yaml:"targets,omitempty"`
	Count    int      `yaml:"count,omitempty"`
	Messages []string `yaml:"messages,omitempty"`
}

// Assertion types.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertCallbacks     = "callbacks"
)

var outcomeNames = map[string]bool{
	ir.OutcomeValue.String():   true,
	ir.OutcomeVoid.String():    true,
	ir.OutcomeFailure.String(): true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// splitTarget splits "namespace.method" at the last dot.
func splitTarget(target string) (namespace, method string, ok bool) {
	i := strings.LastIndex(target, ".")
	if i <= 0 || i == len(target)-1 {
		return "", "", false
	}
	return target[:i], target[i+1:], true
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if s.Listener != nil && s.Listener.Delay < 0 {
		return fmt.Errorf("listener.delay must not be negative")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, step Step) error {
	switch {
	case step.Invoke == "" && step.Advance == 0:
		return fmt.Errorf("steps[%d]: invoke or advance is required", i)
	case step.Invoke != "" && step.Advance != 0:
		return fmt.Errorf("steps[%d]: invoke and advance are mutually exclusive", i)
	case step.Advance < 0:
		return fmt.Errorf("steps[%d]: advance must be positive", i)
	}

	if step.Invoke == "" {
		if len(step.Args) > 0 || step.Callback || step.Expect != nil {
			return fmt.Errorf("steps[%d]: advance steps take no args, callback or expect", i)
		}
		return nil
	}

	if _, _, ok := splitTarget(step.Invoke); !ok {
		return fmt.Errorf("steps[%d]: invoke %q must be namespace.method", i, step.Invoke)
	}
	if step.Expect != nil {
		if !outcomeNames[step.Expect.Outcome] {
			return fmt.Errorf("steps[%d].expect: outcome must be value, void or failure, got %q", i, step.Expect.Outcome)
		}
		if step.Expect.Error != "" && step.Expect.Outcome != ir.OutcomeFailure.String() {
			return fmt.Errorf("steps[%d].expect: error is only valid for failure outcomes", i)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(i int, a Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Target == "" {
			return fmt.Errorf("assertions[%d]: trace_contains requires target", i)
		}
	case AssertTraceOrder:
		if len(a.Targets) < 2 {
			return fmt.Errorf("assertions[%d]: trace_order requires at least 2 targets", i)
		}
	case AssertTraceCount:
		if a.Target == "" {
			return fmt.Errorf("assertions[%d]: trace_count requires target", i)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: trace_count count must not be negative", i)
		}
	case AssertCallbacks:
	case "":
		return fmt.Errorf("assertions[%d]: type is required", i)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
	}
	return nil
}
