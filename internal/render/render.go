// Package render turns comparison results into terminal text. It consumes
// the query API only and contains no comparison logic of its own.
package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/execdiff/internal/compare"
	"github.com/roach88/execdiff/internal/execlog"
)

const notPresent = "<not present>"

// Renderer writes reports to w. Styles collapse to plain text when color is
// disabled, which also keeps golden-file tests byte-stable.
type Renderer struct {
	w   io.Writer
	num *message.Printer

	bold   lipgloss.Style
	blue   lipgloss.Style
	yellow lipgloss.Style
	red    lipgloss.Style
	green  lipgloss.Style
	dim    lipgloss.Style
}

// New creates a Renderer writing to w.
func New(w io.Writer, color bool) *Renderer {
	r := &Renderer{
		w:   w,
		num: message.NewPrinter(language.English),

		bold:   lipgloss.NewStyle(),
		blue:   lipgloss.NewStyle(),
		yellow: lipgloss.NewStyle(),
		red:    lipgloss.NewStyle(),
		green:  lipgloss.NewStyle(),
		dim:    lipgloss.NewStyle(),
	}
	if color {
		r.bold = lipgloss.NewStyle().Bold(true)
		r.blue = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
		r.yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
		r.red = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		r.green = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
		r.dim = lipgloss.NewStyle().Faint(true)
	}
	return r
}

// Report renders the three mismatch sections with per-log values, or a
// "No mismatches!" line when the result is empty. Values are looked up via
// the session for whichever artifact's comparison reported each key.
func (r *Renderer) Report(sess *compare.Session, m compare.Mismatches) {
	if m.Empty() {
		fmt.Fprintln(r.w, r.green.Render("No mismatches!"))
		return
	}

	if len(m.EnvVars) > 0 {
		fmt.Fprintf(r.w, "\n%s:\n", r.bold.Render("Environment Variable Mismatches"))
		for _, name := range m.EnvVars.Sorted() {
			fmt.Fprintf(r.w, "  $%s\n", r.blue.Render(name))
			r.eachLogRecord(sess, m.EnvVars.Artifact(name), func(rec *execlog.ActionRecord) {
				if v, ok := rec.EnvValue(name); ok {
					fmt.Fprintln(r.w, r.yellow.Render(v))
				} else {
					fmt.Fprintln(r.w, r.red.Render(notPresent))
				}
			})
		}
	}

	r.fileSection(sess, "Input Mismatches", m.Inputs, (*execlog.ActionRecord).Input)
	r.fileSection(sess, "Output Mismatches", m.Outputs, (*execlog.ActionRecord).ActualOutput)
}

func (r *Renderer) fileSection(
	sess *compare.Session,
	title string,
	set compare.Set,
	pick func(*execlog.ActionRecord, string) (execlog.FileRecord, bool),
) {
	if len(set) == 0 {
		return
	}
	fmt.Fprintf(r.w, "\n%s:\n", r.bold.Render(title))
	for _, path := range set.Sorted() {
		fmt.Fprintf(r.w, "  `%s`\n", r.blue.Render(path))
		r.eachLogRecord(sess, set.Artifact(path), func(rec *execlog.ActionRecord) {
			if f, ok := pick(rec, path); ok {
				fmt.Fprintln(r.w, r.digest(f.Digest))
			} else {
				fmt.Fprintln(r.w, r.red.Render(notPresent))
			}
		})
	}
}

// eachLogRecord prints the padded log-name gutter for every log and hands
// the artifact's record in that log to fn. Logs missing the artifact get a
// <not present> line; that can only happen for keys attributed by a
// different walker branch than the one holding the artifact.
func (r *Renderer) eachLogRecord(sess *compare.Session, artifact string, fn func(*execlog.ActionRecord)) {
	for _, log := range sess.Logs() {
		fmt.Fprintf(r.w, "    %s: ", r.dim.Render(fmt.Sprintf("%20.20s", log.Name)))
		rec, ok := log.Index.Lookup(artifact)
		if !ok {
			fmt.Fprintln(r.w, r.red.Render(notPresent))
			continue
		}
		fn(rec)
	}
}

func (r *Renderer) digest(d execlog.Digest) string {
	return fmt.Sprintf("%sBytes: %s, %s: %s%s",
		r.dim.Render("{"),
		r.yellow.Render(r.num.Sprintf("%d", d.SizeBytes)),
		d.HashFunctionName,
		r.yellow.Render(d.Hash.String()),
		r.dim.Render("}"),
	)
}
