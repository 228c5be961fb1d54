package system

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/burstbuild/internal/app"
	"github.com/specialistvlad/burstbuild/internal/module"
	"github.com/specialistvlad/burstbuild/internal/scheduler"
	"github.com/specialistvlad/burstbuild/internal/testutil"
)

func newApp(t *testing.T, files map[string]string, runner *testutil.SleeperRunner) *app.App {
	t.Helper()
	fs, root := testutil.MemTree(t, files)
	cfg, err := app.NewConfig(app.Config{Root: root, Jobs: 4})
	if err != nil {
		t.Fatalf("invalid config: %v", err)
	}
	a := app.NewApp(&testutil.SafeBuffer{}, cfg, app.WithFs(fs), app.WithPhaseRunner(runner))
	t.Cleanup(func() { a.Close() })
	return a
}

// Test for: A failed module skips its transitive dependents only.
func TestErrorHandling_ModuleFailure_SkipsDependents(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"Blueprint.hcl": `
cc_library "libbroken" {}
cc_library "libmid" { shared_libs = ["libbroken"] }
cc_binary "tool" { static_libs = ["libmid"] }
cc_library "libother" {}
`,
	}
	runner := testutil.NewSleeperRunner(0).FailAt("libbroken", module.PhaseCompile)
	a := newApp(t, files, runner)

	// --- Act ---
	report, err := a.Build(context.Background(), nil)

	// --- Assert ---
	var failure *scheduler.ModuleBuildFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected a ModuleBuildFailure, got %v", err)
	}
	if failure.Module != "libbroken" || failure.Phase != module.PhaseCompile {
		t.Errorf("unexpected failure %+v", failure)
	}

	want := map[string]module.Status{
		"libbroken": module.Failed,
		"libmid":    module.Skipped,
		"tool":      module.Skipped,
		"libother":  module.Done,
	}
	for name, status := range want {
		if got := report.Statuses[name]; got != status {
			t.Errorf("%s: expected status %s, got %s", name, status, got)
		}
	}
	if report.SkipCauses["tool"] != "libmid" {
		t.Errorf("expected tool to be skipped because of libmid, got %q", report.SkipCauses["tool"])
	}
	if runner.Ran("libmid") || runner.Ran("tool") {
		t.Errorf("skipped modules must not run")
	}
	if got := runner.Phases["libbroken"]; len(got) != 3 {
		t.Errorf("expected libbroken to stop after compile, ran %v", got)
	}
}

// Test for: A cycle is rejected before any module runs.
func TestErrorHandling_Cycle_RejectedBeforeDispatch(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"Blueprint.hcl": `
cc_library "ok" {}
cc_library "a" { deps = ["b"] }
cc_library "b" { deps = ["a"] }
`,
	}
	runner := testutil.NewSleeperRunner(0)
	a := newApp(t, files, runner)

	// --- Act ---
	report, err := a.Build(context.Background(), []string{"ok"})

	// --- Assert ---
	if report != nil {
		t.Errorf("expected no report for a structural error")
	}
	if err == nil || err.Error() != "cyclic dependency detected: a -> b -> a" {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.Ran("ok") {
		t.Errorf("no module may run when the graph has a cycle")
	}
}

// Test for: Cancellation lets running phases finish and dispatches nothing new.
func TestErrorHandling_Cancellation_StopsDispatch(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"Blueprint.hcl": `
cc_library "first" {}
cc_binary "second" { shared_libs = ["first"] }
`,
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := testutil.NewSleeperRunner(0)
	runner.OnPhase = func(m *module.Module, phase module.Phase) {
		if m.Name == "first" && phase == module.PhaseStub {
			cancel()
		}
	}
	a := newApp(t, files, runner)

	// --- Act ---
	report, err := a.Build(ctx, nil)

	// --- Assert ---
	if !errors.Is(err, scheduler.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if !report.Cancelled {
		t.Errorf("expected the report to be marked cancelled")
	}
	if got := runner.Phases["first"]; len(got) != 1 || got[0] != module.PhaseStub {
		t.Errorf("expected first to stop after its stub phase, ran %v", got)
	}
	if runner.Ran("second") {
		t.Errorf("second must not be dispatched after cancellation")
	}
	for _, name := range []string{"first", "second"} {
		if got := report.Statuses[name]; got != module.Cancelled {
			t.Errorf("%s: expected cancelled, got %s", name, got)
		}
	}
}
