package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runShellScript(t *testing.T, script string) (stdout, stderr string) {
	t.Helper()
	run1, run2 := divergentLogs()
	paths := writeLogs(t, run1, run2)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewShellCommand(&RootOptions{Format: "text"})
	cmd.SetIn(strings.NewReader(script))
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(paths)

	require.NoError(t, cmd.Execute())
	return out.String(), errOut.String()
}

func TestShell_CmpAndQuit(t *testing.T) {
	out, _ := runShellScript(t, "cmp bin/app\nquit\n")
	assert.Contains(t, out, "> ")
	assert.Contains(t, out, "Environment Variable Mismatches")
	assert.Contains(t, out, "$FOO")
}

func TestShell_HelpAndUnknownVerb(t *testing.T) {
	out, _ := runShellScript(t, "help\nfrobnicate bin/app\nq\n")
	assert.Contains(t, out, "usage:")
	assert.Contains(t, out, "unrecognized command!")
}

func TestShell_MissingArtifactSuggests(t *testing.T) {
	out, errOut := runShellScript(t, "cmp bin/ap\nquit\n")
	assert.NotContains(t, out, "Mismatches:")
	assert.Contains(t, errOut, "not found in 1 or more execution logs")
	assert.Contains(t, errOut, "did you mean:")
	assert.Contains(t, errOut, "bin/app")
}

func TestShell_ViewAndDiff(t *testing.T) {
	out, _ := runShellScript(t, "view bin/app\ndiff bin/app\nquit\n")
	assert.Contains(t, out, "remotable: true")
	assert.Contains(t, out, "- ")
	assert.Contains(t, out, "+ ")
}

func TestShell_JSONVerb(t *testing.T) {
	out, _ := runShellScript(t, "json bin/app\nquit\n")
	assert.Contains(t, out, `"environmentVariables"`)
}

func TestShell_EOFExitsCleanly(t *testing.T) {
	out, _ := runShellScript(t, "")
	assert.Contains(t, out, "> ")
}
