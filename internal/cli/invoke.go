package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/littletreezlx/learn-x/internal/engine"
	"github.com/littletreezlx/learn-x/internal/ir"
)

// InvokeResult is the JSON payload of the invoke and callback commands.
type InvokeResult struct {
	ID        string   `json:"id"`
	Target    string   `json:"target"`
	Outcome   string   `json:"outcome"`
	Value     any      `json:"value"`
	Text      string   `json:"text,omitempty"`
	Callbacks []string `json:"callbacks,omitempty"`
}

// FailureDetails is the JSON error detail of a failed invocation.
type FailureDetails struct {
	ID     string       `json:"id"`
	Target string       `json:"target"`
	Kind   ir.ErrorKind `json:"kind"`
}

// NewInvokeCommand creates the invoke command.
func NewInvokeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoke <namespace> <method> [args...]",
		Short: "Invoke a method with string arguments",
		Long: `Invoke a method of a registered namespace.

Each argument is coerced to the method's declared parameter type at the
same position. Missing arguments take the type's zero value and extra
arguments are ignored. The value is printed on success; void methods print
nothing.

Example:
  bridge invoke com.example.HelloWorld sayHello Alice
  bridge invoke com.example.HelloWorld processData 15 active`,
		Args: usageArgs(rootOpts, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(rootOpts, cmd, args, false)
		},
	}

	// Arguments after the method are data, even when they look like flags.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

// runInvoke invokes args[0].args[1] with args[2:]. With withCallback, a
// callback printing each message is handed to the method and pending
// asynchronous notifications are drained before returning.
func runInvoke(opts *RootOptions, cmd *cobra.Command, args []string, withCallback bool) error {
	formatter := opts.formatter(cmd)
	h, err := opts.host(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	req := ir.NewRequest(args[0], args[1], args[2:]...)
	formatter.VerboseLog("invoking %s with %d argument(s)", req.Target(), len(req.Args))

	var out ir.Outcome
	var messages *messageLog
	if withCallback {
		messages = newMessageLog(formatter, "callback: ")
		out = h.Engine.InvokeWithCallback(ctx, req, messages.record)
		if out.OK() && h.Scheduler.Pending() > 0 {
			formatter.VerboseLog("waiting %s for %d pending notification(s)", h.Scheduler.Delay(), h.Scheduler.Pending())
			if err := h.Scheduler.Drain(ctx); err != nil {
				dropped := h.Scheduler.Close()
				formatter.VerboseLog("interrupted: %d notification(s) dropped", dropped)
			}
		}
	} else {
		out = h.Engine.Invoke(ctx, req)
	}
	formatter.VerboseLog("%s in %s", out.Kind, h.Engine.Stats().LastElapsed)

	return writeOutcome(formatter, req, out, messages)
}

// writeOutcome renders an outcome. Failures map to exit code 1.
func writeOutcome(f *OutputFormatter, req ir.InvocationRequest, out ir.Outcome, messages *messageLog) error {
	if err := engine.OutcomeError(out); err != nil {
		kind := engine.KindOf(err)
		details := FailureDetails{ID: out.ID, Target: req.Target(), Kind: kind}
		return f.FailWith(ExitFailure, codeForKind(kind), err, details)
	}

	if f.Format == "json" {
		result := InvokeResult{
			ID:      out.ID,
			Target:  req.Target(),
			Outcome: out.Kind.String(),
			Value:   out.Value,
			Text:    out.Text(),
		}
		if messages != nil {
			result.Callbacks = messages.all()
		}
		return f.Success(result)
	}

	if out.Kind == ir.OutcomeVoid {
		return nil
	}
	return f.Success(out.Text())
}
