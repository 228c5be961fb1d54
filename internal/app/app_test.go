package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/burstbuild/internal/dag"
	"github.com/specialistvlad/burstbuild/internal/index"
	"github.com/specialistvlad/burstbuild/internal/module"
	"github.com/specialistvlad/burstbuild/internal/progress"
	"github.com/specialistvlad/burstbuild/internal/scheduler"
	"github.com/specialistvlad/burstbuild/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sourceTree = map[string]string{
	"libs/foo/Blueprint.hcl": `
module "libfoo" {
  kind = "native-library"
}
`,
	"apps/bar/Blueprint.hcl": `
module "appbar" {
  kind = "application"
  deps = ["libfoo"]
}
`,
	"tools/Blueprint.hcl": `cc_binary "footool" {}`,
}

// setupAppTest creates an app over an in-memory copy of files rooted at /src.
func setupAppTest(t *testing.T, files map[string]string, opts ...Option) (*App, afero.Fs, *testutil.SafeBuffer) {
	t.Helper()
	fs, root := testutil.MemTree(t, files)
	cfg, err := NewConfig(Config{Root: root, LogLevel: "debug", LogFormat: "json"})
	require.NoError(t, err)

	logBuffer := &testutil.SafeBuffer{}
	a := NewApp(logBuffer, cfg, append([]Option{WithFs(fs)}, opts...)...)
	t.Cleanup(func() {
		require.NoError(t, a.Close())
		if os.Getenv("BURSTBUILD_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})
	return a, fs, logBuffer
}

func TestBuild_EndToEnd(t *testing.T) {
	a, fs, _ := setupAppTest(t, sourceTree)

	report, err := a.Build(context.Background(), []string{"appbar"})
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, [][]string{{"libfoo"}, {"appbar"}}, report.Waves)
	assert.Equal(t, []string{"appbar", "libfoo"}, report.Done())
	assert.NotContains(t, report.Statuses, "footool")

	idx, err := a.LoadIndex()
	require.NoError(t, err)
	assert.Equal(t, []string{"appbar", "footool", "libfoo"}, idx.All(), "the index covers every declared module")

	lib, err := idx.ByName("libfoo")
	require.NoError(t, err)
	assert.Equal(t, []string{"/src/out/target/product/generic/system/lib64/libfoo"}, lib.Installed)
	app, err := idx.ByName("appbar")
	require.NoError(t, err)
	assert.Equal(t, []string{"/src/out/target/product/generic/system/framework/appbar"}, app.Installed)
	assert.Equal(t, []string{"APPS"}, app.Class)

	for _, p := range []string{lib.Installed[0], app.Installed[0]} {
		ok, err := afero.Exists(fs, p)
		require.NoError(t, err)
		assert.True(t, ok, p)
	}
	assert.Equal(t, "/src/out/target/product/generic/module-info.json", report.IndexPath)
}

func TestBuild_AllModules(t *testing.T) {
	for _, tokens := range [][]string{nil, {dag.AllModulesTarget}} {
		a, _, _ := setupAppTest(t, sourceTree)
		report, err := a.Build(context.Background(), tokens)
		require.NoError(t, err)
		assert.Equal(t, []string{"appbar", "footool", "libfoo"}, report.Done())
	}
}

func TestBuild_DirectoryTarget(t *testing.T) {
	a, _, _ := setupAppTest(t, sourceTree)
	report, err := a.Build(context.Background(), []string{"/src/libs"})
	require.NoError(t, err)
	assert.Equal(t, []string{"libfoo"}, report.Targets)
	assert.Equal(t, []string{"libfoo"}, report.Done())
}

func TestBuild_UnresolvedTokensDoNotStopOthers(t *testing.T) {
	a, _, _ := setupAppTest(t, sourceTree)

	report, err := a.Build(context.Background(), []string{"ghost", "footool"})
	require.Error(t, err)
	require.NotNil(t, report)

	assert.Equal(t, []string{"footool"}, report.Done())
	require.Len(t, report.Unresolved, 1)
	assert.Equal(t, "ghost", report.Unresolved[0].Name)

	var nf *dag.ModuleNotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestBuild_OnlyUnresolvedTokens(t *testing.T) {
	a, fs, _ := setupAppTest(t, sourceTree)

	report, err := a.Build(context.Background(), []string{"ghost"})
	require.Error(t, err)
	assert.Nil(t, report.Result)

	ok, _ := afero.Exists(fs, a.Config().IndexPath)
	assert.False(t, ok)
}

func TestBuild_PartialFailure(t *testing.T) {
	files := map[string]string{
		"Blueprint.hcl": `
cc_library "a" {}
cc_library "b" { deps = ["a"] }
cc_library "c" {}
`,
	}
	runner := testutil.NewSleeperRunner(0).FailAt("a", module.PhaseLink)
	a, _, logs := setupAppTest(t, files, WithPhaseRunner(runner))

	report, err := a.Build(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
	require.NotNil(t, report)

	assert.Equal(t, []string{"c"}, report.Done())
	assert.Equal(t, []string{"a"}, report.Failed())
	assert.Equal(t, []string{"b"}, report.Skipped())

	var failure *scheduler.ModuleBuildFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, module.PhaseLink, failure.Phase)

	// The index is still refreshed after a partial failure.
	_, err = a.LoadIndex()
	assert.NoError(t, err)
	assert.Contains(t, logs.String(), "Module build failed.")
}

func TestBuild_StructuralErrors(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		a, fs, _ := setupAppTest(t, map[string]string{
			"Blueprint.hcl": `
cc_library "a" { deps = ["b"] }
cc_library "b" { deps = ["c"] }
cc_library "c" { deps = ["a"] }
`,
		})
		report, err := a.Build(context.Background(), []string{"a"})
		assert.Nil(t, report)
		var cyc *dag.CyclicDependencyError
		require.ErrorAs(t, err, &cyc)
		assert.Equal(t, []string{"a", "b", "c", "a"}, cyc.Cycle)

		exists, _ := afero.DirExists(fs, a.Config().OutDir)
		assert.False(t, exists, "no artifacts may be written")
	})

	t.Run("duplicate", func(t *testing.T) {
		a, _, _ := setupAppTest(t, map[string]string{
			"x/Blueprint.hcl": `cc_library "dup" {}`,
			"y/Blueprint.hcl": `cc_library "dup" {}`,
		})
		_, err := a.Build(context.Background(), nil)
		assert.ErrorContains(t, err, "duplicate module")
	})
}

func TestBuild_IndexIsIdempotent(t *testing.T) {
	a, fs, _ := setupAppTest(t, sourceTree)

	_, err := a.Build(context.Background(), nil)
	require.NoError(t, err)
	first, err := afero.ReadFile(fs, a.Config().IndexPath)
	require.NoError(t, err)

	require.NoError(t, fs.RemoveAll(a.Config().OutDir))
	_, err = a.Build(context.Background(), nil)
	require.NoError(t, err)
	second, err := afero.ReadFile(fs, a.Config().IndexPath)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestBuild_ProgressSink(t *testing.T) {
	rec := &progress.Recorder{}
	a, _, _ := setupAppTest(t, sourceTree, WithProgressSink(rec))

	_, err := a.Build(context.Background(), []string{"appbar"})
	require.NoError(t, err)

	var phases int
	for _, e := range rec.Events() {
		if e.Type == progress.EventPhaseFinished {
			phases++
		}
	}
	assert.Equal(t, 2*len(module.Phases), phases)

	latest, ok := a.recorder.Latest()
	require.True(t, ok)
	assert.Equal(t, progress.EventRunFinished, latest.Type)
}

func TestQueries(t *testing.T) {
	a, _, _ := setupAppTest(t, sourceTree)

	_, err := a.QueryAll()
	var missing *index.IndexMissingError
	require.ErrorAs(t, err, &missing)
	_, err = a.QueryPath("libfoo")
	require.ErrorAs(t, err, &missing)

	path, err := a.RefreshIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a.Config().IndexPath, path)

	all, err := a.QueryAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"appbar", "footool", "libfoo"}, all)

	dir, err := a.QueryPath("appbar")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/src/apps/bar"), dir)

	out, err := a.QueryOut("footool")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/src/out/target/product/generic/system/lib64/footool"), out)

	names, err := a.QueryDir("libs")
	require.NoError(t, err)
	assert.Equal(t, []string{"libfoo"}, names)
	names, err = a.QueryDir("/src/apps/")
	require.NoError(t, err)
	assert.Equal(t, []string{"appbar"}, names)

	_, err = a.QueryDir("lib")
	assert.True(t, errors.Is(err, ErrNoModulesInDir))

	_, err = a.QueryOut("ghost")
	var unknown *index.UnknownModuleError
	assert.ErrorAs(t, err, &unknown)
}

func TestHealthcheckHandlers(t *testing.T) {
	a, _, _ := setupAppTest(t, sourceTree)
	mux := a.healthMux()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK\n", rr.Body.String())

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/progress", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	_, err := a.Build(context.Background(), []string{"libfoo"})
	require.NoError(t, err)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/progress", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var e progress.Event
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
	assert.Equal(t, progress.EventRunFinished, e.Type)
	assert.Equal(t, 4, e.Step)
	assert.Equal(t, 4, e.Total)
}

func TestBuild_ProgressURLUnavailable(t *testing.T) {
	fs, root := testutil.MemTree(t, sourceTree)
	cfg, err := NewConfig(Config{Root: root, ProgressURL: "not a url"})
	require.NoError(t, err)
	logs := &testutil.SafeBuffer{}
	a := NewApp(logs, cfg, WithFs(fs))
	defer a.Close()

	_, err = a.Build(context.Background(), []string{"libfoo"})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Progress publisher unavailable")
}
