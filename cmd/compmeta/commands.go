package main

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/novaengine/compmeta/internal/classifier"
	"github.com/novaengine/compmeta/internal/cli"
	"github.com/novaengine/compmeta/internal/models"
	"github.com/novaengine/compmeta/internal/utils"
)

// flagBindings maps configuration keys to command flags
var flagBindings = map[string]string{
	"output":      "output",
	"format":      "format",
	"copy_to":     "copy-to",
	"workers":     "workers",
	"lenient":     "lenient",
	"marker":      "marker",
	"pool_marker": "pool-marker",
	"macro":       "macro",
}

// loadConfig merges defaults, the configuration file, the environment and any
// flags the user set on cmd
func loadConfig(cmd *cobra.Command, opts *globalOptions) (*cli.Config, error) {
	v := cli.NewViper()
	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}
	return cli.LoadConfig(v, opts.configFile)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, name := range flagBindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}

func addOutputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("output", "o", "metadata.json", "path of the generated metadata file")
	flags.StringSlice("copy-to", nil, "directories that receive a copy of the output")
}

func newGenerateCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [dirs...]",
		Short: "Extract component metadata from C++ sources",
		Long: `Recursively scans the given directories (default: the working directory)
for C++ headers and sources, selects component types and writes their
public fields with a classified field kind.

Paths containing a 'packages' directory are skipped. Headers below a
'Shared' directory are skipped while sources there are still scanned.`,
		Example: `  compmeta generate ./engine/src
  compmeta generate -o build/metadata.json --copy-to runtime/assets ./...
  compmeta generate --format yaml -o metadata.yaml ./src`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			cfg.Directories = args
			if len(cfg.Directories) == 0 {
				cfg.Directories = []string{"."}
			}

			diagnostics := opts.diagnostics(cmd)
			diagnostics.Section("Component Metadata Generator")
			if opts.verbose || opts.debug {
				diagnostics.Subsection("Configuration")
				diagnostics.List("Directories: %v", cfg.Directories)
				diagnostics.List("Output: %s (%s)", cfg.Output, cfg.Format)
				diagnostics.List("Workers: %d", cfg.Workers)
				diagnostics.List("Markers: %s, excluding %s, macro %s", cfg.Marker, cfg.PoolMarker, cfg.Macro)
			}

			return cli.NewGenerator(cfg, diagnostics).Run(cmd.Context())
		},
	}

	addOutputFlags(cmd)
	flags := cmd.Flags()
	flags.String("format", "json", "output format: json or yaml")
	flags.IntP("workers", "j", 0, "files parsed concurrently (0 = one per CPU)")
	flags.Bool("lenient", false, "extract from files with syntax errors instead of skipping them")
	flags.String("marker", "IComponent", "base name that marks a component")
	flags.String("pool-marker", "IComponentPool", "base name that excludes a type despite the marker")
	flags.String("macro", "NV_COMPONENT", "component marker macro name")

	return cmd
}

func newCleanCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the generated metadata file and its copies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			diagnostics := opts.diagnostics(cmd)
			removed, err := cli.NewCleaner(cfg).Clean()
			for _, path := range removed {
				diagnostics.List("removed %s", path)
			}
			if err != nil {
				return err
			}
			if len(removed) == 0 {
				diagnostics.Info("Nothing to clean")
				return nil
			}
			diagnostics.Success("Removed %d file(s)", len(removed))
			return nil
		},
	}

	addOutputFlags(cmd)
	return cmd
}

func newKindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the field kinds and the type spellings that map to them",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			tbl := utils.NewTable("ORDINAL", "KIND", "TYPE")
			tbl.Row(strconv.Itoa(int(models.FieldUndefined)), models.FieldUndefined.String(), "(any other spelling)")
			for _, entry := range classifier.Table() {
				tbl.Row(strconv.Itoa(int(entry.Kind)), entry.Kind.String(), entry.Spelling)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "compmeta version: %s\n", Version)
			fmt.Fprintf(out, "Git commit: %s\n", GitCommit)
			fmt.Fprintf(out, "Build date: %s\n", BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		},
	}
}
