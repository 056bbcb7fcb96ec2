package compare

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roach88/execdiff/internal/execlog"
	"github.com/roach88/execdiff/internal/testutil"
)

func twoLogSession(t *testing.T, a, b []byte, opts ...Option) *Session {
	t.Helper()
	sess, err := Load(context.Background(), []Source{
		{Name: "run1.json", Data: a},
		{Name: "run2.json", Data: b},
	}, opts...)
	require.NoError(t, err)
	return sess
}

func TestLoad_RequiresTwoLogs(t *testing.T) {
	_, err := Load(context.Background(), []Source{{Name: "only.json", Data: testutil.LogBytes(testutil.Action("a"))}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2")
}

func TestLoad_ParseFailureFailsWholeLoad(t *testing.T) {
	good := testutil.LogBytes(testutil.Action("bin/a"))
	_, err := Load(context.Background(), []Source{
		{Name: "good.json", Data: good},
		{Name: "bad.json", Data: []byte("not json at all")},
	})
	require.Error(t, err)

	var pe *execlog.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad.json", pe.Log)
}

func TestLoad_WarnsOnAmbiguousOutputs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	dup := testutil.LogBytes(
		testutil.Action("bin/dup"),
		testutil.Action("bin/dup"),
	)
	clean := testutil.LogBytes(testutil.Action("bin/dup"))

	twoLogSession(t, dup, clean, WithLogger(zap.New(core)))

	entries := logs.FilterMessage("outputs produced by multiple actions").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "run1.json", entries[0].ContextMap()["log"])
}

func TestLoad_ProgressObserved(t *testing.T) {
	builders := make([]*testutil.ActionBuilder, 0, 300)
	for i := 0; i < 300; i++ {
		builders = append(builders, testutil.Action("bin/out").Input("src/in", "seed"))
	}
	big := testutil.LogBytes(builders...)

	var mu sync.Mutex
	seen := map[string]bool{}
	twoLogSession(t, big, big, WithProgress(func(log string, offset, total int) {
		mu.Lock()
		defer mu.Unlock()
		if offset == total {
			seen[log] = true
		}
	}))

	assert.True(t, seen["run1.json"])
	assert.True(t, seen["run2.json"])
}

func TestSession_LookupPresentInAll(t *testing.T) {
	a := testutil.LogBytes(testutil.Action("bin/a").Env("FOO", "1"))
	b := testutil.LogBytes(testutil.Action("bin/a").Env("FOO", "2"))
	sess := twoLogSession(t, a, b)

	records, err := sess.Lookup("bin/a")
	require.NoError(t, err)
	require.Len(t, records, 2)
	v, _ := records[0].EnvValue("FOO")
	assert.Equal(t, "1", v, "records come back in load order")
}

func TestSession_LookupMissingFromOneLog(t *testing.T) {
	a := testutil.LogBytes(testutil.Action("bin/a"), testutil.Action("bin/only-a"))
	b := testutil.LogBytes(testutil.Action("bin/a"))
	sess := twoLogSession(t, a, b)

	_, err := sess.Lookup("bin/only-a")
	require.Error(t, err)
	assert.True(t, execlog.IsNotFound(err))

	var nf *execlog.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "bin/only-a", nf.Artifact)
	assert.Equal(t, []string{"run2.json"}, nf.Missing)

	// Compare performs no comparison for a missing artifact.
	_, err = sess.Compare("bin/only-a")
	assert.True(t, execlog.IsNotFound(err))
}

func TestSession_CompareFindsEnvMismatch(t *testing.T) {
	a := testutil.LogBytes(testutil.Action("bin/a").Env("FOO", "1"))
	b := testutil.LogBytes(testutil.Action("bin/a").Env("FOO", "2"))
	sess := twoLogSession(t, a, b)

	m, err := sess.Compare("bin/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"FOO"}, m.EnvVars.Sorted())
}

func TestSession_Suggest(t *testing.T) {
	a := testutil.LogBytes(testutil.Action("bazel-out/bin/server"), testutil.Action("bazel-out/bin/client"))
	sess := twoLogSession(t, a, a)

	got := sess.Suggest("server", 10)
	require.NotEmpty(t, got)
	assert.Equal(t, "bazel-out/bin/server", got[0])

	assert.Empty(t, sess.Suggest("", 10))
	assert.Empty(t, sess.Suggest("server", 0))
}

func TestSession_TokenStable(t *testing.T) {
	a := testutil.LogBytes(testutil.Action("bin/a"))
	sess := twoLogSession(t, a, a)
	assert.NotEmpty(t, sess.Token())
	assert.Equal(t, []string{"run1.json", "run2.json"}, sess.LogNames())
}
