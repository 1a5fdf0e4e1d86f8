package hello

import (
	"context"
	"fmt"
	"strings"

	"github.com/littletreezlx/learn-x/internal/callback"
	"github.com/littletreezlx/learn-x/internal/ir"
	"github.com/littletreezlx/learn-x/internal/registry"
)

// Version is reported by getVersion and embedded in greetings.
const Version = "1.0.0"

// HelloWorld is the com.example.HelloWorld namespace.
type HelloWorld struct {
	scheduler *callback.Scheduler
}

// New creates the namespace. Listener registrations go to scheduler.
func New(scheduler *callback.Scheduler) *HelloWorld {
	return &HelloWorld{scheduler: scheduler}
}

// SayHello returns a versioned greeting.
func SayHello(name string) string {
	return fmt.Sprintf("Hello from Go: %s [v%s]", name, Version)
}

// GetVersion returns Version.
func GetVersion() string {
	return Version
}

// SayHelloWithCallback computes a result and hands it to cb in-line, before
// returning. cb is called exactly once when non-nil, never when nil.
func SayHelloWithCallback(name string, cb callback.Func) {
	result := "Callback result: " + name
	callback.Deliver(cb, result)
}

// RegisterSystemListener stores listener and schedules the system event.
// It returns the registration ID.
func (h *HelloWorld) RegisterSystemListener(listener callback.Func) (string, error) {
	return h.scheduler.Register(listener)
}

// ProcessData classifies an age bracket and an activity status.
func ProcessData(age int32, status string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Processing data: age=%d, status=%s", age, status)

	switch {
	case age < 18:
		b.WriteString(" -> Category: Minor")
	case age < 30:
		b.WriteString(" -> Category: Young Adult")
	case age < 60:
		b.WriteString(" -> Category: Adult")
	default:
		b.WriteString(" -> Category: Senior")
	}

	if status == "active" {
		b.WriteString(", Status: ACTIVE")
	} else {
		b.WriteString(", Status: INACTIVE")
	}
	return b.String()
}

// Methods returns the namespace's callables in declaration order.
func (h *HelloWorld) Methods() []registry.Method {
	return []registry.Method{
		{
			Name:   "sayHello",
			Params: []ir.ParamType{ir.TypeString},
			Call: func(_ context.Context, args []any) (any, error) {
				return SayHello(args[0].(string)), nil
			},
		},
		{
			Name: "getVersion",
			Call: func(context.Context, []any) (any, error) {
				return GetVersion(), nil
			},
		},
		{
			Name:   "sayHelloWithCallback",
			Params: []ir.ParamType{ir.TypeString},
			Void:   true,
			Call: func(ctx context.Context, args []any) (any, error) {
				SayHelloWithCallback(args[0].(string), callback.FromContext(ctx))
				return nil, nil
			},
		},
		{
			Name: "registerSystemListener",
			Void: true,
			Call: func(ctx context.Context, _ []any) (any, error) {
				_, err := h.RegisterSystemListener(callback.FromContext(ctx))
				return nil, err
			},
		},
		{
			Name:   "processData",
			Params: []ir.ParamType{ir.TypeInt, ir.TypeString},
			Call: func(_ context.Context, args []any) (any, error) {
				return ProcessData(args[0].(int32), args[1].(string)), nil
			},
		},
	}
}

// Register adds com.example.HelloWorld and com.example.Calculator to r.
func Register(r *registry.Registry, h *HelloWorld) error {
	if err := r.Register(ir.ReferenceNamespace, h.Methods()...); err != nil {
		return fmt.Errorf("register %s: %w", ir.ReferenceNamespace, err)
	}
	if err := r.Register(CalculatorNamespace, CalculatorMethods()...); err != nil {
		return fmt.Errorf("register %s: %w", CalculatorNamespace, err)
	}
	return nil
}
