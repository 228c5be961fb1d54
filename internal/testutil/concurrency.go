package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/specialistvlad/burstbuild/internal/module"
)

// ExecutionRecord holds the start and end time of one module's phases.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// SleeperRunner is a phase runner for concurrency tests. Each phase sleeps
// for a fixed duration, and the runner records per-module execution windows,
// the order phases ran in and the peak number of modules in flight.
type SleeperRunner struct {
	mu             sync.Mutex
	sleepDuration  time.Duration
	failures       map[string]module.Phase
	ExecutionTimes map[string]*ExecutionRecord
	Phases         map[string][]module.Phase
	inFlight       map[string]struct{}
	MaxInFlight    int
	// OnPhase, when set, is called after each phase completes.
	OnPhase func(m *module.Module, phase module.Phase)
}

// NewSleeperRunner creates a runner whose phases each sleep for sleep.
func NewSleeperRunner(sleep time.Duration) *SleeperRunner {
	return &SleeperRunner{
		sleepDuration:  sleep,
		failures:       make(map[string]module.Phase),
		ExecutionTimes: make(map[string]*ExecutionRecord),
		Phases:         make(map[string][]module.Phase),
		inFlight:       make(map[string]struct{}),
	}
}

// FailAt makes the named module fail in the given phase.
func (r *SleeperRunner) FailAt(name string, phase module.Phase) *SleeperRunner {
	r.failures[name] = phase
	return r
}

// RunPhase sleeps, records the call and fails when configured to.
func (r *SleeperRunner) RunPhase(_ context.Context, m *module.Module, phase module.Phase) error {
	r.mu.Lock()
	if _, ok := r.ExecutionTimes[m.Name]; !ok {
		r.ExecutionTimes[m.Name] = &ExecutionRecord{Start: time.Now()}
	}
	r.inFlight[m.Name] = struct{}{}
	r.MaxInFlight = max(r.MaxInFlight, len(r.inFlight))
	r.mu.Unlock()

	time.Sleep(r.sleepDuration)

	r.mu.Lock()
	r.Phases[m.Name] = append(r.Phases[m.Name], phase)
	r.ExecutionTimes[m.Name].End = time.Now()
	failPhase, fail := r.failures[m.Name]
	fail = fail && failPhase == phase
	if phase == module.PhaseLink || fail {
		delete(r.inFlight, m.Name)
	}
	onPhase := r.OnPhase
	r.mu.Unlock()

	if onPhase != nil {
		onPhase(m, phase)
	}
	if fail {
		return fmt.Errorf("injected failure in %s", phase)
	}
	return nil
}

// Record returns the execution window of the named module.
func (r *SleeperRunner) Record(name string) (ExecutionRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.ExecutionTimes[name]
	if !ok {
		return ExecutionRecord{}, false
	}
	return *rec, true
}

// Ran reports whether any phase of the named module ran.
func (r *SleeperRunner) Ran(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ExecutionTimes[name]
	return ok
}
