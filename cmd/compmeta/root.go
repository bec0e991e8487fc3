package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/novaengine/compmeta/internal/cli"
	"github.com/novaengine/compmeta/internal/utils"
)

var (
	// Version information, set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	configFile string
	verbose    bool
	debug      bool
	quiet      bool
}

func (o *globalOptions) level() utils.DiagnosticLevel {
	switch {
	case o.quiet:
		return utils.DiagnosticError
	case o.debug:
		return utils.DiagnosticDebug
	case o.verbose:
		return utils.DiagnosticVerbose
	default:
		return utils.DiagnosticInfo
	}
}

// diagnostics creates a diagnostic system writing to the command's streams
func (o *globalOptions) diagnostics(cmd *cobra.Command) *utils.DiagnosticSystem {
	d := utils.NewDiagnosticSystem(o.level())
	d.SetWriters(cmd.OutOrStdout(), cmd.ErrOrStderr())
	return d
}

func newRootCommand(opts *globalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "compmeta",
		Short: "Component metadata extractor for C++ engine sources",
		Long: `compmeta scans C++ source trees for component types and writes a
machine-readable description of every component and its public fields.

A component is a class or struct that derives from the marker interface
(IComponent by default, excluding IComponentPool) or that is declared with
the component marker macro, e.g. struct NV_COMPONENT(Health) { ... };`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "configuration file (default ./compmeta.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "only show errors")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "debug")

	rootCmd.AddCommand(newGenerateCommand(opts))
	rootCmd.AddCommand(newCleanCommand(opts))
	rootCmd.AddCommand(newKindsCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// run executes the command line and returns the process exit code
func run(args []string) int {
	return execute(args, os.Stdout, os.Stderr)
}

func execute(args []string, out, errOut io.Writer) int {
	opts := &globalOptions{}
	rootCmd := newRootCommand(opts)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cli.NewDiagnosticReporterWithWriter(opts.verbose || opts.debug, errOut).ReportError(err)
		return 1
	}
	return 0
}
