package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/littletreezlx/learn-x/internal/engine"
)

// Run executes the command tree with args and returns the process exit
// code. Errors raised by cobra itself (unknown command or flag) are usage
// errors and are reported here; commands report their own ExitErrors.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return run(ctx, &RootOptions{}, args, stdout, stderr)
}

func run(ctx context.Context, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// cobra's own errors (unknown command or flag) are not yet reported.
		usage := engine.NewUsageError(err.Error())
		fmt.Fprintf(stderr, "Error [%s]: %s\n", codeForKind(usage.Kind), usage.Message)
		err = usage
	}
	return GetExitCode(err)
}
