package render

import (
	"fmt"
	"strings"

	"github.com/roach88/execdiff/internal/execlog"
)

// FormatAction renders one action's fields of interest as indented plain
// text. The output is deterministic (fields in declaration order, lists in
// recorded order) so two renderings can be diffed line by line.
func FormatAction(rec *execlog.ActionRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "remotable: %t\n", rec.Remotable)
	fmt.Fprintf(&b, "cacheable: %t\n", rec.Cacheable)

	fmt.Fprintf(&b, "environmentVariables: (%d)\n", len(rec.Env))
	for _, e := range rec.Env {
		fmt.Fprintf(&b, "  %s=%s\n", e.Name, e.Value)
	}

	fmt.Fprintf(&b, "inputs: (%d)\n", len(rec.Inputs))
	for _, f := range rec.Inputs {
		writeFile(&b, f)
	}

	fmt.Fprintf(&b, "listedOutputs: (%d)\n", len(rec.ListedOutputs))
	for _, p := range rec.ListedOutputs {
		fmt.Fprintf(&b, "  %s\n", p)
	}

	fmt.Fprintf(&b, "actualOutputs: (%d)\n", len(rec.ActualOutputs))
	for _, f := range rec.ActualOutputs {
		writeFile(&b, f)
	}

	return b.String()
}

func writeFile(b *strings.Builder, f execlog.FileRecord) {
	fmt.Fprintf(b, "  %s {Bytes: %d, %s: %s}\n", f.Path, f.Digest.SizeBytes, f.Digest.HashFunctionName, f.Digest.Hash)
}

// View prints the action's rendered fields for every log that has it.
func (r *Renderer) View(name string, rec *execlog.ActionRecord) {
	fmt.Fprintf(r.w, "`%s`:\n", r.green.Render(name))
	for _, line := range strings.Split(strings.TrimRight(FormatAction(rec), "\n"), "\n") {
		fmt.Fprintf(r.w, "  %s\n", line)
	}
}
