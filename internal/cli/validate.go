package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/execdiff/internal/execlog"
	"github.com/roach88/execdiff/internal/schema"
)

// NewValidateCommand creates the validate command: a strict schema check of
// every document in the given logs. Unlike the comparison commands it works
// on a single log, and it keeps going past bad documents so all issues are
// reported at once.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <log>...",
		Short: "Check execution-log documents against the expected schema",
		Long: `Split each log into documents and validate every document against the
action-record schema: digest hashes must be 64 lowercase hex characters,
sizes non-negative integers, and so on. Reports all violations instead of
stopping at the first, which makes it the right tool for logs that cmp
refuses to load.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			validator, err := schema.NewValidator()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to build schema validator", err)
			}

			total := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to read execution log", err)
				}
				docs := execlog.SplitDocuments(data)
				issues := validator.CheckDocuments(docs)
				total += len(issues)
				if len(issues) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d documents valid\n", path, len(docs))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: %d issue(s)\n", path, len(issues))
				for _, issue := range issues {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", issue)
				}
			}

			if total > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d schema issue(s) found", total))
			}
			return nil
		},
	}
}
