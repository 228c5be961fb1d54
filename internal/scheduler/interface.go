package scheduler

import (
	"context"

	"github.com/specialistvlad/burstbuild/internal/artifact"
	"github.com/specialistvlad/burstbuild/internal/module"
)

// PhaseRunner performs one phase of a module build.
type PhaseRunner interface {
	RunPhase(ctx context.Context, m *module.Module, phase module.Phase) error
}

// PhaseRunnerFunc adapts a function to the PhaseRunner interface.
type PhaseRunnerFunc func(ctx context.Context, m *module.Module, phase module.Phase) error

// RunPhase calls f(ctx, m, phase).
func (f PhaseRunnerFunc) RunPhase(ctx context.Context, m *module.Module, phase module.Phase) error {
	return f(ctx, m, phase)
}

// ArtifactWriter persists the output of a built module.
type ArtifactWriter interface {
	Write(ctx context.Context, m *module.Module) (*artifact.Artifact, error)
}
