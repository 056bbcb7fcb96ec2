package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/execdiff/internal/compare"
	"github.com/roach88/execdiff/internal/execlog"
	"github.com/roach88/execdiff/internal/render"
)

const shellUsage = `usage:
  - quit (or q) to quit
  - cmp <output path> to compare items of interest within the action for an output path
  - transitive-cmp <output path> (or tcmp) to compare all transitive dependencies of an output path
  - edges <output path> *attempts* to determine the inputs that caused the executions of the output path to diverge; may not be accurate
  - view <output path> to print selected fields of interest from the action for an output path
  - diff <output path> to print a textual diff of the fields from view
  - json <output path> to print the raw JSON blobs for an output path
`

// NewShellCommand creates the shell command: an interactive loop issuing
// the other query commands against one loaded session, so the logs are
// parsed once no matter how many artifacts are inspected.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "shell <log> <log>...",
		Short:         "Interactively query a set of execution logs",
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, rootOpts)
			if err != nil {
				return err
			}
			sess, err := env.loadSession(cmd, args)
			if err != nil {
				return err
			}
			return runShell(cmd, env, sess)
		},
	}
}

func runShell(cmd *cobra.Command, env *environment, sess *compare.Session) error {
	out := cmd.OutOrStdout()
	r := render.New(out, env.color)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		verb, artifact, _ := strings.Cut(line, " ")
		artifact = strings.TrimSpace(artifact)

		switch {
		case line == "quit" || line == "q":
			return nil
		case line == "" || line == "help":
			fmt.Fprint(out, shellUsage)
		case artifact == "":
			fmt.Fprintln(out, "unrecognized command!")
			fmt.Fprint(out, shellUsage)
		default:
			shellDispatch(cmd, env, sess, r, verb, artifact)
		}
	}
}

var shellVerbs = map[string]struct{}{
	"cmp": {}, "transitive-cmp": {}, "tcmp": {}, "edges": {}, "view": {}, "diff": {}, "json": {},
}

func shellDispatch(cmd *cobra.Command, env *environment, sess *compare.Session, r *render.Renderer, verb, artifact string) {
	out := cmd.OutOrStdout()

	if _, known := shellVerbs[verb]; !known {
		fmt.Fprintln(out, "unrecognized command!")
		fmt.Fprint(out, shellUsage)
		return
	}

	records, err := sess.Lookup(artifact)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		if suggestions := sess.Suggest(artifact, env.cfg.Suggestions); len(suggestions) > 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "did you mean:")
			for _, s := range suggestions {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", s)
			}
		}
		return
	}

	switch verb {
	case "cmp":
		r.Report(sess, compare.Compare(artifact, records))
	case "transitive-cmp", "tcmp":
		r.Report(sess, sess.TransitiveCompare(artifact))
	case "edges":
		r.Report(sess, sess.Edges(artifact))
	case "view":
		for i, log := range sess.Logs() {
			r.View(log.Name, records[i])
		}
	case "diff":
		shellDiff(out, r, artifact, records)
	case "json":
		for i, log := range sess.Logs() {
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, records[i].Raw, "", "  "); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return
			}
			fmt.Fprintf(out, "`%s`:\n%s\n\n", log.Name, pretty.String())
		}
	}
}

func shellDiff(out io.Writer, r *render.Renderer, artifact string, records []*execlog.ActionRecord) {
	if allEquivalent(records) {
		fmt.Fprintf(out, "all executions of `%s` were equivalent\n", artifact)
		return
	}
	if len(records) != 2 {
		fmt.Fprintln(out, "can't diff more than 2 things yet, sorry!")
		return
	}
	fmt.Fprint(out, r.LineDiff(render.FormatAction(records[0]), render.FormatAction(records[1])))
}
