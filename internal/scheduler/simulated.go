package scheduler

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/specialistvlad/burstbuild/internal/ctxlog"
	"github.com/specialistvlad/burstbuild/internal/module"
)

// SimulatedRunner stands in for a real compiler. Each phase waits for a
// uniformly random duration in [MinLatency, MaxLatency].
type SimulatedRunner struct {
	MinLatency time.Duration
	MaxLatency time.Duration
}

// RunPhase sleeps for the simulated phase latency.
func (r SimulatedRunner) RunPhase(ctx context.Context, m *module.Module, phase module.Phase) error {
	d := r.latency()
	ctxlog.FromContext(ctx).Debug("Running simulated phase.", "module", m.Name, "phase", phase, "latency", d)
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r SimulatedRunner) latency() time.Duration {
	if r.MaxLatency <= r.MinLatency {
		return max(r.MinLatency, 0)
	}
	return r.MinLatency + rand.N(r.MaxLatency-r.MinLatency+1)
}
