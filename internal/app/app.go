package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/burstbuild/internal/config"
	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/specialistvlad/burstbuild/internal/dag"
	"github.com/specialistvlad/burstbuild/internal/hcl"
	"github.com/specialistvlad/burstbuild/internal/progress"
	"github.com/specialistvlad/burstbuild/internal/registry"
	"github.com/specialistvlad/burstbuild/internal/scheduler"
	"github.com/spf13/afero"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	logger     *slog.Logger
	config     *Config
	fs         afero.Fs
	loader     config.Loader
	runner     scheduler.PhaseRunner
	sink       progress.Sink
	recorder   *progress.Recorder
	httpServer *http.Server
	closers    []io.Closer
}

// Option customizes an App.
type Option func(*App)

// WithFs replaces the operating system filesystem.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithLoader replaces the HCL declaration loader.
func WithLoader(loader config.Loader) Option {
	return func(a *App) { a.loader = loader }
}

// WithPhaseRunner replaces the simulated phase runner.
func WithPhaseRunner(runner scheduler.PhaseRunner) Option {
	return func(a *App) { a.runner = runner }
}

// WithProgressSink adds a sink that observes every progress event.
func WithProgressSink(sink progress.Sink) Option {
	return func(a *App) { a.sink = sink }
}

// NewApp is the constructor for the main application. Logs are written to
// logW in the configured format.
func NewApp(logW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	a := &App{
		ctx:      ctxlog.WithLogger(context.Background(), logger),
		logger:   logger,
		config:   cfg,
		fs:       afero.NewOsFs(),
		loader:   hcl.NewLoader(),
		runner:   scheduler.SimulatedRunner{MinLatency: cfg.MinLatency, MaxLatency: cfg.MaxLatency},
		recorder: &progress.Recorder{},
	}
	for _, opt := range opts {
		opt(a)
	}
	logger.Debug("Logger configured successfully.", "root", cfg.Root, "out_dir", cfg.OutDir)
	return a
}

// Config returns the application's configuration.
func (a *App) Config() *Config {
	return a.config
}

// LoadGraph scans the source root and returns the module graph.
func (a *App) LoadGraph(ctx context.Context) (*dag.Graph, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	reg := registry.New(a.fs, a.loader, a.config.DeclFileName)
	return reg.Load(ctx, a.config.Root)
}

// Close releases the healthcheck server and progress publishers.
func (a *App) Close() error {
	var firstErr error
	if err := a.closeHealthCheckServer(); err != nil {
		firstErr = err
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
