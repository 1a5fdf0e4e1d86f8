package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/littletreezlx/learn-x/internal/callback"
	"github.com/littletreezlx/learn-x/internal/config"
	"github.com/littletreezlx/learn-x/internal/engine"
	"github.com/littletreezlx/learn-x/internal/hello"
	"github.com/littletreezlx/learn-x/internal/ir"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config is resolved in PersistentPreRunE: file values first, then
	// explicitly set flags.
	Config config.Config

	// resolved is set once resolve has succeeded.
	resolved bool

	// Test hooks. Nil means real timers and UUIDv7 IDs.
	afterFunc callback.AfterFunc
	ids       engine.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = config.Formats

// NewRootCommand creates the root command for the bridge CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "bridge - dynamic invocation bridge",
		Long: `Invoke named methods of registered namespaces with string arguments.

Arguments are coerced to each method's declared parameter types, the method
is called and its outcome (value, void or failure) is reported.`,
		Version:       fmt.Sprintf("%s (reference namespace %s v%s)", ir.BridgeVersion, ir.ReferenceNamespace, hello.Version),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")

	// Add subcommands
	cmd.AddCommand(NewInvokeCommand(opts))
	cmd.AddCommand(NewCallbackCommand(opts))
	cmd.AddCommand(NewListenCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve loads the config file, applies explicitly set flags over it and
// configures logging. It runs once, from PersistentPreRunE or from an
// argument check that fails first.
func (opts *RootOptions) resolve(cmd *cobra.Command) error {
	if opts.resolved {
		return nil
	}

	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return opts.formatter(cmd).FailWith(ExitCommandError, ErrCodeUsage, err, nil)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("format") || opts.ConfigPath == "" {
		cfg.Format = opts.Format
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.Verbose
	}

	// Validate format flag
	if !config.ValidFormat(cfg.Format) {
		opts.Format = "text"
		msg := fmt.Sprintf("invalid format %q: must be one of %v", cfg.Format, ValidFormats)
		return opts.formatter(cmd).Fail(ExitCommandError, ErrCodeUsage, msg, nil)
	}

	opts.Config = cfg
	opts.Format = cfg.Format
	opts.Verbose = cfg.Verbose
	opts.resolved = true

	setupLogging(cmd, cfg.Verbose)
	return nil
}

// setupLogging installs a text handler on stderr. Invocation records are
// debug and info level, so only --verbose surfaces them.
func setupLogging(cmd *cobra.Command, verbose bool) {
	logLevel := slog.LevelError
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// formatter returns an OutputFormatter bound to cmd's writers.
func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	format := opts.Format
	if !config.ValidFormat(format) {
		format = "text"
	}
	return &OutputFormatter{
		Format:    format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// host builds the bridge components from the resolved config.
func (opts *RootOptions) host(cmd *cobra.Command) (*Host, error) {
	var extra []callback.Option
	if opts.afterFunc != nil {
		extra = append(extra, callback.WithAfterFunc(opts.afterFunc))
	}
	h, err := NewHost(opts.Config, opts.ids, extra...)
	if err != nil {
		return nil, opts.formatter(cmd).FailWith(ExitCommandError, ErrCodeGeneric, err, nil)
	}
	return h, nil
}

// usageArgs requires at least n positional arguments and reports a usage
// error otherwise. cobra checks arguments before PersistentPreRunE, so the
// config is resolved here first and the error uses the configured format.
func usageArgs(opts *RootOptions, n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) >= n {
			return nil
		}
		if err := opts.resolve(cmd); err != nil {
			return err
		}
		err := engine.NewUsageError(fmt.Sprintf("usage: %s", cmd.UseLine()))
		return opts.formatter(cmd).FailWith(ExitCommandError, codeForKind(engine.KindOf(err)), err, nil)
	}
}
