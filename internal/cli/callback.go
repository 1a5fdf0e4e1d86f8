package cli

import (
	"github.com/spf13/cobra"
)

// NewCallbackCommand creates the callback command.
func NewCallbackCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "callback <namespace> <method> [args...]",
		Short: "Invoke a method with a printing callback",
		Long: `Invoke a method with a callback attached.

Methods that accept a callback receive one that prints each message as
"callback: <message>". Synchronous callbacks print before the command
returns. If the method scheduled an asynchronous notification, the command
waits for it before exiting.

Example:
  bridge callback com.example.HelloWorld sayHelloWithCallback Bob
  bridge callback com.example.HelloWorld registerSystemListener`,
		Args: usageArgs(rootOpts, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(rootOpts, cmd, args, true)
		},
	}

	cmd.Flags().SetInterspersed(false)

	return cmd
}
