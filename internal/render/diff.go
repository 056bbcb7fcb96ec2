package render

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineDiff produces a unified-style line diff of two rendered texts.
// Unchanged lines are prefixed with two spaces, removals with "- " and
// additions with "+ "; removals and additions honor the renderer's color
// setting.
func (r *Renderer) LineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	aChars, bChars, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(aChars, bChars, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				out.WriteString(r.red.Render("- "+line) + "\n")
			case diffmatchpatch.DiffInsert:
				out.WriteString(r.green.Render("+ "+line) + "\n")
			default:
				out.WriteString("  " + line + "\n")
			}
		}
	}
	return out.String()
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
