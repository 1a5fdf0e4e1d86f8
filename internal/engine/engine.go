package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/littletreezlx/learn-x/internal/callback"
	"github.com/littletreezlx/learn-x/internal/coerce"
	"github.com/littletreezlx/learn-x/internal/ir"
	"github.com/littletreezlx/learn-x/internal/registry"
)

// Resolver looks up a callable by name. *registry.Registry implements it.
type Resolver interface {
	Resolve(namespace, method string) (*registry.Handle, error)
}

// Engine drives resolution, coercion and invocation.
//
// INVARIANTS:
//   - Resolve is called on every Invoke; handles are never cached
//   - a callable runs only after every declared parameter coerced
//   - Invoke never panics and never returns an error; failures are outcomes
type Engine struct {
	resolver Resolver
	clock    *Clock
	ids      IDGenerator

	calls       atomic.Int64
	failures    atomic.Int64
	lastElapsed atomic.Int64
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithIDGenerator sets the invocation ID generator.
// Default: UUIDv7Generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(e *Engine) {
		if gen != nil {
			e.ids = gen
		}
	}
}

// WithClock sets the logical clock stamping outcomes.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// New creates an Engine resolving callables through r.
func New(r Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolver: r,
		clock:    NewClock(),
		ids:      UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invoke resolves, coerces and calls req, returning the normalized outcome.
func (e *Engine) Invoke(ctx context.Context, req ir.InvocationRequest) ir.Outcome {
	start := time.Now()
	id := e.ids.Generate()
	seq := e.clock.Next()

	slog.Debug("invoking",
		"id", id,
		"seq", seq,
		"target", req.Target(),
		"args", len(req.Args),
	)

	out := e.invoke(ctx, req)

	elapsed := time.Since(start)
	out.ID = id
	out.Seq = seq
	out.Elapsed = elapsed

	e.calls.Add(1)
	e.lastElapsed.Store(int64(elapsed))

	if out.Kind == ir.OutcomeFailure {
		e.failures.Add(1)
		slog.Warn("invocation failed",
			"id", id,
			"target", req.Target(),
			"kind", out.Failure.Kind,
			"error", out.Failure.Message,
		)
		return out
	}

	slog.Info("invocation completed",
		"id", id,
		"target", req.Target(),
		"outcome", out.Kind,
		"elapsed", elapsed,
	)
	return out
}

// InvokeWithCallback invokes req with cb available to the callable through
// callback.FromContext. Callables that accept a callback (for example
// sayHelloWithCallback or registerSystemListener) decide when to call it.
func (e *Engine) InvokeWithCallback(ctx context.Context, req ir.InvocationRequest, cb callback.Func) ir.Outcome {
	return e.Invoke(callback.WithCallback(ctx, cb), req)
}

func (e *Engine) invoke(ctx context.Context, req ir.InvocationRequest) ir.Outcome {
	h, err := e.resolver.Resolve(req.Namespace, req.Method)
	if err != nil {
		return resolutionError(req, err).outcome()
	}

	args, err := coerce.Args(req.Args, h.Params)
	if err != nil {
		return badArgumentError(req, err).outcome()
	}

	v, err := call(ctx, req, h, args)
	if err != nil {
		var ee *Error
		if errors.As(err, &ee) {
			return ee.outcome()
		}
		return executionError(req, err).outcome()
	}

	if h.Void || v == nil {
		return ir.VoidOutcome()
	}
	return ir.ValueOutcome(v)
}

// call runs the handle, converting a panic into an ExecutionError.
func call(ctx context.Context, req ir.InvocationRequest, h *registry.Handle, args []any) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = panicError(req, r)
		}
	}()
	return h.Invoke(ctx, args)
}

// Stats is a snapshot of invocation counters.
type Stats struct {
	CallCount    int64         `json:"call_count"`
	FailureCount int64         `json:"failure_count"`
	LastElapsed  time.Duration `json:"last_elapsed_ns"`
}

// Stats returns the current counters.
func (e *Engine) Stats() Stats {
	return Stats{
		CallCount:    e.calls.Load(),
		FailureCount: e.failures.Load(),
		LastElapsed:  time.Duration(e.lastElapsed.Load()),
	}
}

// Clock returns the engine's logical clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}
