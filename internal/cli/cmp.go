package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/execdiff/internal/compare"
	"github.com/roach88/execdiff/internal/execlog"
	"github.com/roach88/execdiff/internal/render"
)

// NewCmpCommand creates the cmp command: direct comparison of one
// artifact's action across all logs.
func NewCmpCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cmp <output path> <log> <log>...",
		Short: "Compare one artifact's action across execution logs",
		Long: `Compare the environment variables, inputs, and actual outputs recorded
for an artifact's producing action in each execution log.

Example:
  execdiff cmp bazel-out/k8-fastbuild/bin/foo run1.json run2.json`,
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, rootOpts, args[0], args[1:], directCompare)
		},
	}
}

// NewTransitiveCmpCommand creates the transitive-cmp command: comparison
// propagated along mismatched-input edges.
func NewTransitiveCmpCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "transitive-cmp <output path> <log> <log>...",
		Aliases: []string{"tcmp"},
		Short:   "Compare an artifact and everything its mismatched inputs reach",
		Long: `Compare the artifact's action, then follow every mismatched input to its
own producing action, recursively, aggregating all mismatches found along
the way. Artifacts missing from one or more logs end their branch silently.`,
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, rootOpts, args[0], args[1:], transitiveCompare)
		},
	}
}

// NewEdgesCommand creates the edges command: the root-cause frontier of a
// transitive comparison.
func NewEdgesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edges <output path> <log> <log>...",
		Short: "Attempt to find the inputs that made an artifact diverge",
		Long: `Run a transitive comparison, then discard intermediate artifacts (paths
that are both someone's mismatched output and someone else's mismatched
input). What remains approximates the divergence's root causes; the cut is
heuristic and may not be accurate.`,
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, rootOpts, args[0], args[1:], edgesCompare)
		},
	}
}

// compareFunc maps an artifact to a comparison result over a session.
type compareFunc func(*compare.Session, string) (compare.Mismatches, error)

func directCompare(sess *compare.Session, artifact string) (compare.Mismatches, error) {
	return sess.Compare(artifact)
}

// transitiveCompare and edgesCompare verify the root exists up front so the
// command can report not-found instead of an empty aggregate.
func transitiveCompare(sess *compare.Session, artifact string) (compare.Mismatches, error) {
	if _, err := sess.Lookup(artifact); err != nil {
		return compare.Mismatches{}, err
	}
	return sess.TransitiveCompare(artifact), nil
}

func edgesCompare(sess *compare.Session, artifact string) (compare.Mismatches, error) {
	if _, err := sess.Lookup(artifact); err != nil {
		return compare.Mismatches{}, err
	}
	return sess.Edges(artifact), nil
}

func runCompare(cmd *cobra.Command, opts *RootOptions, artifact string, logPaths []string, fn compareFunc) error {
	env, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	sess, err := env.loadSession(cmd, logPaths)
	if err != nil {
		return err
	}

	m, err := fn(sess, artifact)
	if err != nil {
		if execlog.IsNotFound(err) {
			return NewExitError(ExitFailure, err.Error())
		}
		return WrapExitError(ExitCommandError, "comparison failed", err)
	}

	if opts.Format == "json" {
		return writeMismatchJSON(cmd.OutOrStdout(), artifact, m)
	}
	render.New(cmd.OutOrStdout(), env.color).Report(sess, m)
	return nil
}
