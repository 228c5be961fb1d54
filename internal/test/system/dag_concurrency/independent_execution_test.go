package system

import (
	"testing"
	"time"

	"github.com/specialistvlad/burstbuild/internal/testutil"
)

// Test for: Independent parallel tracks execute concurrently.
func TestDagConcurrency_IndependentExecution(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"track1/Blueprint.hcl": `
cc_library "track1_a" {}
cc_binary "track1_b" { shared_libs = ["track1_a"] }
`,
		"track2/Blueprint.hcl": `
cc_library "track2_a" {}
cc_binary "track2_b" { shared_libs = ["track2_a"] }
`,
	}
	runner := testutil.NewSleeperRunner(25 * time.Millisecond)

	// --- Act ---
	report := buildTree(t, files, 4, runner)

	// --- Assert ---
	if !report.Succeeded() {
		t.Fatalf("expected a successful build, got %v", report.Err())
	}
	track1A := record(t, runner, "track1_a")
	track1B := record(t, runner, "track1_b")
	track2A := record(t, runner, "track2_a")

	if track2A.Start.After(track1A.End) {
		t.Errorf("independent tracks did not run in parallel (track 2 started after track 1 finished)")
	}
	if track1B.Start.Before(track1A.End) {
		t.Errorf("dependency violation in track 1: b started before a finished")
	}
}

// Test for: The worker pool never exceeds the configured job count.
func TestDagConcurrency_JobsBoundWorkers(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"Blueprint.hcl": `
cc_library "m1" {}
cc_library "m2" {}
cc_library "m3" {}
cc_library "m4" {}
cc_library "m5" {}
cc_library "m6" {}
`,
	}
	runner := testutil.NewSleeperRunner(10 * time.Millisecond)

	// --- Act ---
	report := buildTree(t, files, 2, runner)

	// --- Assert ---
	if got := len(report.Done()); got != 6 {
		t.Fatalf("expected 6 modules built, got %d", got)
	}
	if runner.MaxInFlight > 2 {
		t.Errorf("expected at most 2 modules in flight, got %d", runner.MaxInFlight)
	}
	if runner.MaxInFlight < 2 {
		t.Errorf("expected the pool to be used, peak in flight was %d", runner.MaxInFlight)
	}
}
