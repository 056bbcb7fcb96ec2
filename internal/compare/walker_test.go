package compare

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/execdiff/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// chainSession builds two logs where bin/app <- lib/b.a <- src/c.c and
// src/c.c's content differs between runs, dragging digests up the chain.
func chainSession(t *testing.T) *Session {
	t.Helper()
	mk := func(run string) []byte {
		return testutil.LogBytes(
			testutil.Action("src/c.c").ActualOutput("src/c.c", "c-"+run),
			testutil.Action("lib/b.a").
				Input("src/c.c", "c-"+run).
				ActualOutput("lib/b.a", "b-"+run),
			testutil.Action("bin/app").
				Input("lib/b.a", "b-"+run).
				ActualOutput("bin/app", "app-"+run),
		)
	}
	return twoLogSession(t, mk("run1"), mk("run2"))
}

func TestTransitiveCompare_FollowsMismatchedInputs(t *testing.T) {
	sess := chainSession(t)

	m := sess.TransitiveCompare("bin/app")
	assert.Equal(t, []string{"lib/b.a", "src/c.c"}, m.Inputs.Sorted())
	assert.Equal(t, []string{"bin/app", "lib/b.a", "src/c.c"}, m.Outputs.Sorted())
	assert.Empty(t, m.EnvVars.Sorted())
}

func TestTransitiveCompare_MissingRootIsSilentlyEmpty(t *testing.T) {
	sess := chainSession(t)
	m := sess.TransitiveCompare("no/such/artifact")
	assert.True(t, m.Empty())
}

func TestTransitiveCompare_MissingBranchSkipped(t *testing.T) {
	// bin/app's input src/gone.c diverges but has no producing action in
	// any log: the branch ends silently, the direct mismatch remains.
	a := testutil.LogBytes(testutil.Action("bin/app").Input("src/gone.c", "v1"))
	b := testutil.LogBytes(testutil.Action("bin/app").Input("src/gone.c", "v2"))
	sess := twoLogSession(t, a, b)

	m := sess.TransitiveCompare("bin/app")
	assert.Equal(t, []string{"src/gone.c"}, m.Inputs.Sorted())
	assert.Empty(t, m.Outputs.Sorted())
}

func TestTransitiveCompare_DiamondVisitedOnce(t *testing.T) {
	// D feeds both B and C; both feed A; D's content diverges. D must
	// appear exactly once in each aggregate set despite two paths to it.
	mk := func(run string) []byte {
		return testutil.LogBytes(
			testutil.Action("d").ActualOutput("d", "d-"+run),
			testutil.Action("b").Input("d", "d-"+run).ActualOutput("b", "b-"+run),
			testutil.Action("c").Input("d", "d-"+run).ActualOutput("c", "c-"+run),
			testutil.Action("a").
				Input("b", "b-"+run).
				Input("c", "c-"+run).
				ActualOutput("a", "a-"+run),
		)
	}
	sess := twoLogSession(t, mk("run1"), mk("run2"))

	m := sess.TransitiveCompare("a")
	assert.Equal(t, []string{"b", "c", "d"}, m.Inputs.Sorted())
	assert.Equal(t, []string{"a", "b", "c", "d"}, m.Outputs.Sorted())
}

func TestTransitiveCompare_CycleTerminates(t *testing.T) {
	// The mismatch relation may cycle even though a build graph should
	// not; the visited set must terminate the walk.
	mk := func(run string) []byte {
		return testutil.LogBytes(
			testutil.Action("x").Input("y", "y-"+run).ActualOutput("x", "x-"+run),
			testutil.Action("y").Input("x", "x-"+run).ActualOutput("y", "y-"+run),
		)
	}
	sess := twoLogSession(t, mk("run1"), mk("run2"))

	m := sess.TransitiveCompare("x")
	assert.Equal(t, []string{"x", "y"}, m.Inputs.Sorted())
	assert.Equal(t, []string{"x", "y"}, m.Outputs.Sorted())
}

func TestTransitiveCompare_IdempotentUnderScheduling(t *testing.T) {
	sess := chainSession(t)

	want := sortedSets(sess.TransitiveCompare("bin/app"))
	for i := 0; i < 50; i++ {
		got := sortedSets(sess.TransitiveCompare("bin/app"))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("run %d differs (-want +got):\n%s", i, diff)
		}
	}
}

func TestTransitiveCompare_AggregatesDeepEnvMismatch(t *testing.T) {
	// The env divergence sits on the leaf's action, discovered only by
	// walking through the mismatched intermediate.
	mk := func(run, tz string) []byte {
		return testutil.LogBytes(
			testutil.Action("leaf").Env("TZ", tz).ActualOutput("leaf", "leaf-"+run),
			testutil.Action("root").Input("leaf", "leaf-"+run).ActualOutput("root", "root-"+run),
		)
	}
	sess := twoLogSession(t, mk("run1", "UTC"), mk("run2", "PST"))

	m := sess.TransitiveCompare("root")
	assert.Equal(t, []string{"TZ"}, m.EnvVars.Sorted())
	assert.Equal(t, "leaf", m.EnvVars.Artifact("TZ"))
}

func TestEdges_RemovesIntermediates(t *testing.T) {
	sess := chainSession(t)

	m := sess.Edges("bin/app")
	// lib/b.a is both a mismatched input (of bin/app) and a mismatched
	// output (of its own action): intermediate, dropped from both sets.
	// src/c.c is also both: its own action reports it as output.
	assert.Empty(t, m.Inputs.Sorted())
	assert.Equal(t, []string{"bin/app"}, m.Outputs.Sorted())
}

func TestEdges_LeafInputSurvives(t *testing.T) {
	// src/gone.c has no producing action, so it never shows up as an
	// output and survives the frontier cut as a root cause.
	a := testutil.LogBytes(
		testutil.Action("bin/app").Input("src/gone.c", "v1").ActualOutput("bin/app", "app-1"),
	)
	b := testutil.LogBytes(
		testutil.Action("bin/app").Input("src/gone.c", "v2").ActualOutput("bin/app", "app-2"),
	)
	sess := twoLogSession(t, a, b)

	m := sess.Edges("bin/app")
	assert.Equal(t, []string{"src/gone.c"}, m.Inputs.Sorted())
	assert.Equal(t, []string{"bin/app"}, m.Outputs.Sorted())
}

func TestTransitiveCompare_NoMismatchesCleanTree(t *testing.T) {
	log := testutil.LogBytes(
		testutil.Action("src/c.c"),
		testutil.Action("bin/app").Input("src/c.c", "same").ActualOutput("bin/app", "same-bin"),
	)
	sess, err := Load(context.Background(), []Source{
		{Name: "a", Data: log},
		{Name: "b", Data: log},
		{Name: "c", Data: log},
	})
	require.NoError(t, err)

	m := sess.TransitiveCompare("bin/app")
	assert.True(t, m.Empty())
}
