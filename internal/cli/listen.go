package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/littletreezlx/learn-x/internal/ir"
)

// ListenOptions holds flags for the listen command.
type ListenOptions struct {
	*RootOptions
	Delay time.Duration
	Wait  bool
}

// ListenResult is the JSON payload of the listen command.
type ListenResult struct {
	ID            string   `json:"id"`
	Delay         string   `json:"delay"`
	Waited        bool     `json:"waited"`
	Notifications []string `json:"notifications"`
	Dropped       int      `json:"dropped"`
}

// NewListenCommand creates the listen command.
func NewListenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Register a system listener and wait for its notification",
		Long: `Register a printing listener through
com.example.HelloWorld.registerSystemListener.

The notification fires once after the listener delay (3s unless configured)
and prints "notification: <payload>". With --wait=false the command exits
right after registering and the pending notification is dropped.

Example:
  bridge listen
  bridge listen --delay 500ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListen(opts, cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Delay, "delay", 0, "notification delay (default from config, 3s)")
	cmd.Flags().BoolVar(&opts.Wait, "wait", true, "wait for the notification before exiting")

	return cmd
}

func runListen(opts *ListenOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if cmd.Flags().Changed("delay") {
		if opts.Delay <= 0 {
			return formatter.Fail(ExitCommandError, ErrCodeUsage, "--delay must be positive", nil)
		}
		opts.Config.Listener.Delay = opts.Delay
	}

	h, err := opts.host(cmd)
	if err != nil {
		return err
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifications := newMessageLog(formatter, "notification: ")
	req := ir.NewRequest(ir.ReferenceNamespace, "registerSystemListener")
	out := h.Engine.InvokeWithCallback(ctx, req, notifications.record)
	if !out.OK() {
		return writeOutcome(formatter, req, out, nil)
	}

	delay := h.Scheduler.Delay()
	formatter.VerboseLog("listener registered, notification in %s", delay)

	result := ListenResult{ID: out.ID, Delay: delay.String(), Waited: opts.Wait}

	if !opts.Wait {
		result.Dropped = h.Scheduler.Close()
		slog.Debug("listener not awaited", "dropped", result.Dropped)
		result.Notifications = notifications.all()
		if formatter.Format == "json" {
			return formatter.Success(result)
		}
		return formatter.Success("listener registered")
	}

	if err := h.Scheduler.Drain(ctx); err != nil {
		dropped := h.Scheduler.Close()
		slog.Info("listen interrupted", "dropped", dropped, "error", err)
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "interrupted before the notification fired", map[string]int{"dropped": dropped})
	}

	result.Notifications = notifications.all()
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return nil
}
