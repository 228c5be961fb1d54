package scheduler

import (
	"context"
	"runtime"

	"github.com/google/uuid"
	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/specialistvlad/burstbuild/internal/dag"
	"github.com/specialistvlad/burstbuild/internal/module"
	"github.com/specialistvlad/burstbuild/internal/progress"
	"golang.org/x/sync/errgroup"
)

// Options tune a Scheduler.
type Options struct {
	// Concurrency bounds the number of modules built at once. Zero or less
	// selects runtime.GOMAXPROCS(0).
	Concurrency int
	// Sink receives progress events. Nil discards them.
	Sink progress.Sink
}

// Scheduler dispatches module builds over a dependency graph.
type Scheduler struct {
	graph       *dag.Graph
	runner      PhaseRunner
	writer      ArtifactWriter
	sink        progress.Sink
	concurrency int
}

// New creates a Scheduler for graph. The graph must not be modified while
// a run is in progress.
func New(graph *dag.Graph, runner PhaseRunner, writer ArtifactWriter, opts Options) *Scheduler {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	sink := opts.Sink
	if sink == nil {
		sink = progress.Discard
	}
	return &Scheduler{
		graph:       graph,
		runner:      runner,
		writer:      writer,
		sink:        sink,
		concurrency: concurrency,
	}
}

// Concurrency returns the worker pool size.
func (s *Scheduler) Concurrency() int {
	return s.concurrency
}

// Run builds targets and everything they depend on.
//
// Structural problems are returned as errors before anything is dispatched:
// a target naming no module yields *dag.ModuleNotFoundError and a cycle in the
// graph yields *dag.CyclicDependencyError. Module failures are not errors of
// Run; they are recorded in the Result, see Result.Err.
func (s *Scheduler) Run(ctx context.Context, targets []string) (*Result, error) {
	for _, name := range targets {
		if _, ok := s.graph.Module(name); !ok {
			return nil, &dag.ModuleNotFoundError{Name: name}
		}
	}
	if err := s.graph.Validate(); err != nil {
		return nil, err
	}

	closure, err := s.graph.Closure(targets)
	if err != nil {
		return nil, err
	}
	waves, err := s.graph.Waves(closure)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx, logger := ctxlog.With(ctx, "run_id", runID)
	logger.Info("Build started.", "targets", len(targets), "modules", len(closure), "waves", len(waves), "concurrency", s.concurrency)

	tracker := progress.NewTracker(runID, len(closure)*len(module.Phases), s.sink)
	st := newStateTable(closure)
	tracker.RunStarted()

	for i, wave := range waves {
		if ctx.Err() != nil {
			logger.Warn("Build cancelled, not dispatching remaining waves.", "wave", i)
			break
		}
		s.runWave(ctx, st, tracker, i, wave)
	}

	// Anything never dispatched because of cancellation.
	for _, name := range closure {
		if !st.status(name).Terminal() {
			st.setStatus(name, module.Cancelled)
		}
	}

	res := newResult(runID, waves)
	st.snapshot(res)
	res.Cancelled = len(res.CancelledModules()) > 0

	status := "done"
	switch {
	case res.Cancelled:
		status = module.Cancelled.String()
	case !res.Succeeded():
		status = module.Failed.String()
	}
	tracker.RunFinished(status)

	logger.Info("Build finished.",
		"status", status,
		"done", len(res.Done()),
		"failed", len(res.Failed()),
		"skipped", len(res.Skipped()),
		"cancelled", len(res.CancelledModules()),
	)
	return res, nil
}

// runWave dispatches every ready module of one wave and waits for all of
// them. It is the barrier between waves.
func (s *Scheduler) runWave(ctx context.Context, st *stateTable, tracker *progress.Tracker, index int, wave []string) {
	logger := ctxlog.FromContext(ctx)

	ready := make([]*module.Module, 0, len(wave))
	for _, name := range wave {
		m, _ := s.graph.Module(name)
		if dep, blocked := blockingDependency(st, m); blocked {
			logger.Warn("Skipping module, dependency did not build.", "module", name, "dependency", dep, "dependency_status", st.status(dep).String())
			st.setStatus(name, module.Skipped)
			st.setCause(name, dep)
			tracker.ModuleFinished(m, module.Skipped)
			continue
		}
		st.setStatus(name, module.Ready)
		ready = append(ready, m)
	}

	logger.Debug("Dispatching wave.", "wave", index, "modules", len(ready), "skipped", len(wave)-len(ready))
	tracker.WaveStarted(index, len(ready))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, m := range ready {
		g.Go(func() error {
			s.buildModule(ctx, st, tracker, m)
			return nil
		})
	}
	// Workers never return errors; failures live in the state table.
	_ = g.Wait()
}

// buildModule runs the phases of m and writes its artifact. Cancellation is
// checked between phases; a phase that has started always runs to completion.
func (s *Scheduler) buildModule(ctx context.Context, st *stateTable, tracker *progress.Tracker, m *module.Module) {
	ctx, logger := ctxlog.With(ctx, "module", m.Name)
	phaseCtx := context.WithoutCancel(ctx)

	finish := func(status module.Status) {
		st.setStatus(m.Name, status)
		tracker.ModuleFinished(m, status)
	}
	fail := func(phase module.Phase, err error) {
		failure := &ModuleBuildFailure{Module: m.Name, Phase: phase, Err: err}
		logger.Error("Module build failed.", "phase", phase, "error", err)
		st.setFailure(m.Name, failure)
		finish(module.Failed)
	}

	if ctx.Err() != nil {
		logger.Debug("Module not started, build cancelled.")
		finish(module.Cancelled)
		return
	}

	st.setStatus(m.Name, module.Running)
	logger.Debug("Module build started.", "kind", m.Kind)

	for _, phase := range module.Phases {
		if ctx.Err() != nil {
			logger.Info("Module stopped, build cancelled.", "next_phase", phase)
			finish(module.Cancelled)
			return
		}
		if err := s.runner.RunPhase(phaseCtx, m, phase); err != nil {
			fail(phase, err)
			return
		}
		tracker.PhaseFinished(m, phase)
	}

	if ctx.Err() != nil {
		logger.Info("Module stopped before install, build cancelled.")
		finish(module.Cancelled)
		return
	}
	a, err := s.writer.Write(phaseCtx, m)
	if err != nil {
		fail(module.PhaseInstall, err)
		return
	}
	st.setArtifact(m.Name, a)
	finish(module.Done)
	logger.Debug("Module build finished.", "artifact", a.ModulePath)
}

// blockingDependency returns the first dependency of m that is not Done.
func blockingDependency(st *stateTable, m *module.Module) (string, bool) {
	for _, dep := range m.Dependencies {
		if st.status(dep) != module.Done {
			return dep, true
		}
	}
	return "", false
}
