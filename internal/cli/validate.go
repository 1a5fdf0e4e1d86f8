package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/littletreezlx/learn-x/internal/manifest"
)

// ValidationResult holds manifest check results.
type ValidationResult struct {
	Manifest   string              `json:"manifest"`
	Valid      bool                `json:"valid"`
	Methods    int                 `json:"methods"`
	Mismatches []manifest.Mismatch `json:"mismatches,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <manifest.cue>",
		Short: "Check registered signatures against a CUE manifest",
		Long: `Check the registry against a CUE signature manifest.

Every namespace and method the manifest names must be registered with the
same parameter types and return kind. Registered methods the manifest does
not mention are ignored.`,
		Args: usageArgs(rootOpts, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	m, err := manifest.Load(path)
	if err != nil {
		var details any
		var me *manifest.Error
		if errors.As(err, &me) && me.Pos.IsValid() {
			details = map[string]any{"field": me.Field, "line": me.Pos.Line()}
		}
		return formatter.FailWith(ExitCommandError, ErrCodeManifestLoad, err, details)
	}
	formatter.VerboseLog("Loaded %d namespace(s), %d method(s) from %s", len(m.Namespaces), m.MethodCount(), path)

	h, err := opts.host(cmd)
	if err != nil {
		return err
	}

	mismatches := manifest.Check(m, h.Registry)
	result := ValidationResult{
		Manifest:   path,
		Valid:      len(mismatches) == 0,
		Methods:    m.MethodCount(),
		Mismatches: mismatches,
	}

	if result.Valid {
		if formatter.Format == "json" {
			return formatter.Success(result)
		}
		fmt.Fprintf(formatter.Writer, "✓ Registry matches %s (%d methods)\n", path, result.Methods)
		return nil
	}

	return outputMismatches(formatter, result)
}

// outputMismatches reports a failed check. Mismatches are exit code 1.
func outputMismatches(formatter *OutputFormatter, result ValidationResult) error {
	message := fmt.Sprintf("registry does not match manifest: %d mismatch(es)", len(result.Mismatches))

	if formatter.Format == "json" {
		if err := formatter.Error(ErrCodeManifestMismatch, message, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, message)
	}

	fmt.Fprintln(formatter.Writer, "✗ Manifest mismatch")
	fmt.Fprintln(formatter.Writer)
	for _, mm := range result.Mismatches {
		fmt.Fprintf(formatter.Writer, "  %s\n", mm)
	}
	fmt.Fprintln(formatter.Writer)

	_ = formatter.Error(ErrCodeManifestMismatch, message, nil)
	return NewExitError(ExitFailure, message)
}
