package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/burstbuild/internal/artifact"
	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/specialistvlad/burstbuild/internal/dag"
	"github.com/specialistvlad/burstbuild/internal/index"
	"github.com/specialistvlad/burstbuild/internal/progress"
	"github.com/specialistvlad/burstbuild/internal/progress/socketio"
	"github.com/specialistvlad/burstbuild/internal/scheduler"
)

// BuildReport is the outcome of Build.
type BuildReport struct {
	*scheduler.Result
	// Targets are the resolved module names that were requested.
	Targets []string
	// Unresolved holds one error per token that matched no module.
	Unresolved []*dag.ModuleNotFoundError
	// IndexPath is where the refreshed module index was written.
	IndexPath string
}

// Err returns nil when every token resolved and every module built.
func (r *BuildReport) Err() error {
	var errs []error
	for _, e := range r.Unresolved {
		errs = append(errs, e)
	}
	if r.Result != nil {
		errs = append(errs, r.Result.Err())
	}
	return errors.Join(errs...)
}

// Build resolves tokens to modules, builds them with their dependencies and
// refreshes the module index. No tokens, or the all_modules token, selects
// every module. Tokens that match nothing are reported in the returned
// report while the rest still build.
//
// Structural failures (parse, duplicate, cycle) return a nil report.
func (a *App) Build(ctx context.Context, tokens []string) (*BuildReport, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger

	graph, err := a.LoadGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load modules: %w", err)
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	report := &BuildReport{}
	report.Targets, report.Unresolved = resolveTargets(graph, tokens)
	for _, nf := range report.Unresolved {
		logger.Warn("Target did not match any module or directory.", "target", nf.Name)
	}
	if len(report.Targets) == 0 {
		if len(report.Unresolved) > 0 {
			return report, report.Err()
		}
		logger.Warn("No modules to build.")
	}

	a.healthCheckServer()
	sink := progress.Multi(a.recorder, a.sink, a.progressPublisher(ctx))

	writer := artifact.NewWriter(a.fs, a.config.OutDir)
	sched := scheduler.New(graph, a.runner, writer, scheduler.Options{
		Concurrency: a.config.Jobs,
		Sink:        sink,
	})

	res, err := sched.Run(ctx, report.Targets)
	if err != nil {
		return nil, err
	}
	report.Result = res

	// Single writer, after every worker has joined.
	if err := index.Persist(a.fs, index.Rebuild(graph, a.config.OutDir), a.config.IndexPath); err != nil {
		return report, fmt.Errorf("failed to persist module index: %w", err)
	}
	report.IndexPath = a.config.IndexPath
	logger.Info("Module index written.", "path", report.IndexPath, "modules", graph.Len())

	return report, report.Err()
}

// RefreshIndex rebuilds the module index from the source tree without
// building anything and returns its path.
func (a *App) RefreshIndex(ctx context.Context) (string, error) {
	graph, err := a.LoadGraph(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load modules: %w", err)
	}
	if err := index.Persist(a.fs, index.Rebuild(graph, a.config.OutDir), a.config.IndexPath); err != nil {
		return "", fmt.Errorf("failed to persist module index: %w", err)
	}
	a.logger.Info("Module index written.", "path", a.config.IndexPath, "modules", graph.Len())
	return a.config.IndexPath, nil
}

// resolveTargets maps tokens to module names, de-duplicated and in token order.
func resolveTargets(graph *dag.Graph, tokens []string) ([]string, []*dag.ModuleNotFoundError) {
	if len(tokens) == 0 {
		tokens = []string{dag.AllModulesTarget}
	}

	seen := make(map[string]struct{})
	var targets []string
	var unresolved []*dag.ModuleNotFoundError
	for _, token := range tokens {
		names, err := graph.ResolveTarget(token)
		if err != nil {
			var nf *dag.ModuleNotFoundError
			if errors.As(err, &nf) {
				unresolved = append(unresolved, nf)
				continue
			}
			unresolved = append(unresolved, &dag.ModuleNotFoundError{Name: token})
			continue
		}
		for _, name := range names {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				targets = append(targets, name)
			}
		}
	}
	return targets, unresolved
}

// progressPublisher connects the socket.io sink when one is configured. A
// connection failure is logged and the build continues without it.
func (a *App) progressPublisher(ctx context.Context) progress.Sink {
	if a.config.ProgressURL == "" {
		return nil
	}
	pub, err := socketio.Connect(ctx, a.config.ProgressURL, a.config.ProgressNamespace, socketio.DefaultConnectTimeout)
	if err != nil {
		a.logger.Warn("Progress publisher unavailable, continuing without it.", "url", a.config.ProgressURL, "error", err)
		return nil
	}
	a.closers = append(a.closers, pub)
	return pub
}
