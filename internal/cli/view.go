package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/execdiff/internal/compare"
	"github.com/roach88/execdiff/internal/execlog"
	"github.com/roach88/execdiff/internal/render"
)

// NewViewCommand creates the view command: a per-log dump of the artifact's
// action fields of interest.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "view <output path> <log> <log>...",
		Short:         "Print an artifact's recorded action from each log",
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withArtifact(cmd, rootOpts, args[0], args[1:], func(ctx *artifactContext) error {
				r := render.New(cmd.OutOrStdout(), ctx.env.color)
				for i, log := range ctx.sess.Logs() {
					r.View(log.Name, ctx.records[i])
				}
				return nil
			})
		},
	}
}

// NewDiffCommand creates the diff command: a line diff of the rendered
// actions from exactly two logs.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "diff <output path> <log> <log>",
		Short:         "Print a textual diff of an artifact's action between two logs",
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withArtifact(cmd, rootOpts, args[0], args[1:], func(ctx *artifactContext) error {
				if allEquivalent(ctx.records) {
					fmt.Fprintf(cmd.OutOrStdout(), "all executions of `%s` were equivalent\n", ctx.artifact)
					return nil
				}
				if len(ctx.records) != 2 {
					return NewExitError(ExitFailure, "diff requires exactly 2 execution logs")
				}
				r := render.New(cmd.OutOrStdout(), ctx.env.color)
				fmt.Fprint(cmd.OutOrStdout(), r.LineDiff(
					render.FormatAction(ctx.records[0]),
					render.FormatAction(ctx.records[1]),
				))
				return nil
			})
		},
	}
}

// NewJSONCommand creates the json command: the raw log documents for an
// artifact, pretty-printed per log.
func NewJSONCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "json <output path> <log> <log>...",
		Short:         "Print an artifact's raw JSON documents from each log",
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withArtifact(cmd, rootOpts, args[0], args[1:], func(ctx *artifactContext) error {
				for i, log := range ctx.sess.Logs() {
					var pretty bytes.Buffer
					if err := json.Indent(&pretty, ctx.records[i].Raw, "", "  "); err != nil {
						return WrapExitError(ExitCommandError, "failed to format document", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "`%s`:\n%s\n\n", log.Name, pretty.String())
				}
				return nil
			})
		},
	}
}

// artifactContext is what a per-artifact command body works with after the
// shared lookup boilerplate.
type artifactContext struct {
	env      *environment
	sess     *compare.Session
	artifact string
	records  []*execlog.ActionRecord
}

func withArtifact(cmd *cobra.Command, opts *RootOptions, artifact string, logPaths []string, body func(*artifactContext) error) error {
	env, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	sess, err := env.loadSession(cmd, logPaths)
	if err != nil {
		return err
	}
	records, err := sess.Lookup(artifact)
	if err != nil {
		return NewExitError(ExitFailure, err.Error())
	}
	return body(&artifactContext{env: env, sess: sess, artifact: artifact, records: records})
}

// allEquivalent reports whether every record renders identically.
func allEquivalent(records []*execlog.ActionRecord) bool {
	first := render.FormatAction(records[0])
	for _, rec := range records[1:] {
		if render.FormatAction(rec) != first {
			return false
		}
	}
	return true
}
