package system

import (
	"context"
	"os"
	"testing"

	"github.com/specialistvlad/burstbuild/internal/app"
	"github.com/specialistvlad/burstbuild/internal/testutil"
)

// buildTree writes files to a temporary source root and builds targets with
// runner standing in for the toolchain.
func buildTree(t *testing.T, files map[string]string, jobs int, runner *testutil.SleeperRunner, targets ...string) *app.BuildReport {
	t.Helper()
	root := testutil.DiskTree(t, files)
	cfg, err := app.NewConfig(app.Config{Root: root, Jobs: jobs, LogLevel: "debug", LogFormat: "json"})
	if err != nil {
		t.Fatalf("invalid config: %v", err)
	}

	logs := &testutil.SafeBuffer{}
	a := app.NewApp(logs, cfg, app.WithPhaseRunner(runner))
	t.Cleanup(func() {
		a.Close()
		if os.Getenv("BURSTBUILD_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	report, err := a.Build(context.Background(), targets)
	if err != nil {
		t.Fatalf("app.Build() returned an unexpected error: %v", err)
	}
	return report
}

func record(t *testing.T, r *testutil.SleeperRunner, name string) testutil.ExecutionRecord {
	t.Helper()
	rec, ok := r.Record(name)
	if !ok {
		t.Fatalf("module %q never ran", name)
	}
	return rec
}
