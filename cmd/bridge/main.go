// Command bridge invokes named methods of registered namespaces from the
// command line.
package main

import (
	"context"
	"os"

	"github.com/littletreezlx/learn-x/internal/cli"
)

func main() {
	os.Exit(cli.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
