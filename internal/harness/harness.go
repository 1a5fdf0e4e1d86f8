package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/littletreezlx/learn-x/internal/callback"
	"github.com/littletreezlx/learn-x/internal/engine"
	"github.com/littletreezlx/learn-x/internal/hello"
	"github.com/littletreezlx/learn-x/internal/ir"
	"github.com/littletreezlx/learn-x/internal/registry"
	"github.com/littletreezlx/learn-x/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios with a manual clock and sequential IDs.
type Harness struct {
	engine    *engine.Engine
	scheduler *callback.Scheduler
	clock     *testutil.ManualClock
	logger    *slog.Logger

	// pending holds callback messages received during the current step.
	pending []string
}

// Option configures Run.
type Option func(*Harness)

// WithLogger sets the logger that receives per-step records. The default
// is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// Run executes a test scenario against a fresh host and returns the result.
//
// Execution flow:
// 1. Build a registry with the reference namespaces on a manual clock
// 2. Execute steps, checking expect clauses
// 3. Evaluate assertions against the trace
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	clock := testutil.NewManualClock()

	schedOpts := []callback.Option{
		callback.WithAfterFunc(func(d time.Duration, f func()) callback.Timer { return clock.AfterFunc(d, f) }),
		callback.WithIDFunc(testutil.NewSequentialIDs("reg").Generate),
	}
	if l := scenario.Listener; l != nil {
		schedOpts = append(schedOpts, callback.WithDelay(l.Delay))
		if l.Payload != "" {
			schedOpts = append(schedOpts, callback.WithPayload(l.Payload))
		}
	}
	sched := callback.NewScheduler(schedOpts...)

	reg := registry.New()
	if err := hello.Register(reg, hello.New(sched)); err != nil {
		return nil, fmt.Errorf("failed to build registry: %w", err)
	}

	h := &Harness{
		engine:    engine.New(reg, engine.WithIDGenerator(testutil.NewSequentialIDs("inv"))),
		scheduler: sched,
		clock:     clock,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	defer sched.Close()

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Steps {
		h.runStep(ctx, i, step, result)
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// record is the callback attached to invocation steps.
func (h *Harness) record(msg string) {
	h.pending = append(h.pending, msg)
}

// flush appends callbacks received during a step to the trace.
func (h *Harness) flush(result *Result) {
	for _, msg := range h.pending {
		result.Trace = append(result.Trace, TraceEvent{
			Type:    EventCallback,
			Seq:     h.engine.Clock().Next(),
			Message: msg,
		})
	}
	h.pending = nil
}

func (h *Harness) runStep(ctx context.Context, i int, step Step, result *Result) {
	if step.Invoke == "" {
		fired := h.clock.Advance(step.Advance)
		h.logger.Debug("clock advanced", "step", i, "by", step.Advance, "fired", fired)
		h.flush(result)
		return
	}

	ns, method, _ := splitTarget(step.Invoke)
	req := ir.NewRequest(ns, method, step.Args...)

	var out ir.Outcome
	if step.Callback {
		out = h.engine.InvokeWithCallback(ctx, req, h.record)
	} else {
		out = h.engine.Invoke(ctx, req)
	}

	event := TraceEvent{
		Type:    EventInvocation,
		Seq:     out.Seq,
		ID:      out.ID,
		Target:  step.Invoke,
		Args:    step.Args,
		Outcome: out.Kind.String(),
		Text:    out.Text(),
	}
	if out.Failure != nil {
		event.Error = string(out.Failure.Kind)
	}
	result.Trace = append(result.Trace, event)
	h.flush(result)

	h.logger.Debug("step completed", "step", i, "target", step.Invoke, "outcome", out.Kind.String())

	if step.Expect != nil {
		if msg := checkExpect(step.Expect, out); msg != "" {
			result.AddError(fmt.Sprintf("steps[%d] %s: %s", i, step.Invoke, msg))
		}
	}
}

// checkExpect returns "" when out satisfies want.
func checkExpect(want *Expect, out ir.Outcome) string {
	got := out.Kind.String()
	if want.Outcome != got {
		return fmt.Sprintf("expected outcome %s, got %s", want.Outcome, out)
	}
	if want.Text != "" && want.Text != out.Text() {
		return fmt.Sprintf("expected text %q, got %q", want.Text, out.Text())
	}
	if want.Error != "" && (out.Failure == nil || string(out.Failure.Kind) != want.Error) {
		return fmt.Sprintf("expected error %s, got %s", want.Error, out)
	}
	return ""
}
