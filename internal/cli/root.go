// Package cli wires the comparison engine to the command line. Commands
// here parse arguments, load sessions, and render results; none of them
// contain comparison logic.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json"
	Color      string // "auto" | "always" | "never"; overrides config when set
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the execdiff CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "execdiff",
		Short: "Compare Bazel-style execution logs across build runs",
		Long: `execdiff diagnoses non-deterministic builds and remote-cache
inconsistency by comparing execution logs from two or more runs of the same
targets. Point it at the logs and ask which environment variables, inputs,
or outputs diverge for an artifact - directly, or transitively through the
dependency graph to the likely root causes.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Color, "color", "", "colorize output (auto|always|never)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to settings file (default "+defaultConfigHint+")")

	cmd.AddCommand(NewCmpCommand(opts))
	cmd.AddCommand(NewTransitiveCmpCommand(opts))
	cmd.AddCommand(NewEdgesCommand(opts))
	cmd.AddCommand(NewViewCommand(opts))
	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewJSONCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))

	return cmd
}

const defaultConfigHint = ".execdiff.yaml"

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
