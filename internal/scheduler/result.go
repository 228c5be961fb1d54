package scheduler

import (
	"errors"
	"maps"
	"slices"

	"github.com/specialistvlad/burstbuild/internal/artifact"
	"github.com/specialistvlad/burstbuild/internal/module"
)

// Result is the outcome of one run.
type Result struct {
	RunID string
	// Waves is the dispatch plan over the target closure.
	Waves    [][]string
	Statuses map[string]module.Status
	Failures map[string]*ModuleBuildFailure
	// SkipCauses maps each Skipped module to the dependency that blocked it.
	SkipCauses map[string]string
	Artifacts  map[string]*artifact.Artifact
	// Cancelled is set when at least one module ended Cancelled.
	Cancelled bool
}

func newResult(runID string, waves [][]string) *Result {
	return &Result{
		RunID:      runID,
		Waves:      waves,
		Statuses:   make(map[string]module.Status),
		Failures:   make(map[string]*ModuleBuildFailure),
		SkipCauses: make(map[string]string),
		Artifacts:  make(map[string]*artifact.Artifact),
	}
}

// Succeeded reports whether every module in the closure is Done.
func (r *Result) Succeeded() bool {
	for _, s := range r.Statuses {
		if s != module.Done {
			return false
		}
	}
	return true
}

// Done returns the sorted names of modules that built successfully.
func (r *Result) Done() []string {
	return r.withStatus(module.Done)
}

// Failed returns the sorted names of modules that failed in a phase.
func (r *Result) Failed() []string {
	return r.withStatus(module.Failed)
}

// Skipped returns the sorted names of modules not dispatched because a
// dependency did not build.
func (r *Result) Skipped() []string {
	return r.withStatus(module.Skipped)
}

// CancelledModules returns the sorted names of modules stopped by cancellation.
func (r *Result) CancelledModules() []string {
	return r.withStatus(module.Cancelled)
}

// Err summarizes the run: nil on success, otherwise the module failures
// joined in name order, together with ErrCancelled if the run was cancelled.
func (r *Result) Err() error {
	var errs []error
	if r.Cancelled {
		errs = append(errs, ErrCancelled)
	}
	for _, name := range slices.Sorted(maps.Keys(r.Failures)) {
		errs = append(errs, r.Failures[name])
	}
	return errors.Join(errs...)
}

func (r *Result) withStatus(status module.Status) []string {
	var out []string
	for name, s := range r.Statuses {
		if s == status {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
