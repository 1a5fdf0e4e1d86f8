package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/littletreezlx/learn-x/internal/ir"
	"github.com/littletreezlx/learn-x/internal/manifest"
	"github.com/littletreezlx/learn-x/internal/registry"
)

// NamespaceListing is one namespace in list output.
type NamespaceListing struct {
	Namespace string          `json:"namespace"`
	Methods   []MethodListing `json:"methods"`
}

// MethodListing is one method in list output.
type MethodListing struct {
	Name    string         `json:"name"`
	Params  []ir.ParamType `json:"params"`
	Returns string         `json:"returns"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered namespaces and method signatures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
	return cmd
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	h, err := opts.host(cmd)
	if err != nil {
		return err
	}

	listing, err := buildListing(h.Registry)
	if err != nil {
		return formatter.FailWith(ExitCommandError, ErrCodeGeneric, err, nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(listing)
	}
	writeListing(formatter.Writer, listing)
	return nil
}

// buildListing collects namespaces in sorted order and methods in
// registration order.
func buildListing(r *registry.Registry) ([]NamespaceListing, error) {
	var listing []NamespaceListing
	for _, ns := range r.Namespaces() {
		methods, err := r.Methods(ns)
		if err != nil {
			return nil, err
		}
		entry := NamespaceListing{Namespace: ns, Methods: make([]MethodListing, 0, len(methods))}
		for _, m := range methods {
			params := m.Params
			if params == nil {
				params = []ir.ParamType{}
			}
			returns := manifest.ReturnsValue
			if m.Void {
				returns = manifest.ReturnsVoid
			}
			entry.Methods = append(entry.Methods, MethodListing{Name: m.Name, Params: params, Returns: returns})
		}
		listing = append(listing, entry)
	}
	return listing, nil
}

func writeListing(w io.Writer, listing []NamespaceListing) {
	for _, ns := range listing {
		fmt.Fprintln(w, ns.Namespace)
		for _, m := range ns.Methods {
			fmt.Fprintf(w, "  %s%s -> %s\n", m.Name, ir.Signature(ir.Describe(m.Params...)), m.Returns)
		}
	}
}
