package progress

import (
	"sync"
	"time"

	"github.com/specialistvlad/burstbuild/internal/module"
)

// Tracker numbers and forwards the events of one build run. All methods are
// safe for concurrent use; the step counter is advanced and the event
// published under the same lock, so the sink sees strictly increasing steps.
type Tracker struct {
	mu    sync.Mutex
	sink  Sink
	runID string
	total int
	step  int
	wave  int
	now   func() time.Time
}

// NewTracker creates a tracker for a run of total phases.
func NewTracker(runID string, total int, sink Sink) *Tracker {
	if sink == nil {
		sink = Discard
	}
	return &Tracker{
		sink:  sink,
		runID: runID,
		total: total,
		wave:  -1,
		now:   time.Now,
	}
}

// RunID returns the identifier stamped on every event.
func (t *Tracker) RunID() string {
	return t.runID
}

// Step returns the number of phases completed so far.
func (t *Tracker) Step() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.step
}

// RunStarted announces the start of the run.
func (t *Tracker) RunStarted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.publish(Event{Type: EventRunStarted})
}

// WaveStarted announces that wave index is being dispatched with size modules.
func (t *Tracker) WaveStarted(index, size int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.wave = index
	t.publish(Event{Type: EventWaveStarted, WaveSize: size})
}

// PhaseFinished records a completed phase of m and returns the emitted event.
func (t *Tracker) PhaseFinished(m *module.Module, phase module.Phase) Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.step++
	e := moduleEvent(EventPhaseFinished, m)
	e.Phase = phase
	return t.publish(e)
}

// ModuleFinished records the terminal status of m.
func (t *Tracker) ModuleFinished(m *module.Module, status module.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := moduleEvent(EventModuleFinished, m)
	e.Status = status.String()
	t.publish(e)
}

// RunFinished announces the end of the run.
func (t *Tracker) RunFinished(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.wave = -1
	t.publish(Event{Type: EventRunFinished, Status: status})
}

// publish stamps run-wide fields onto e and forwards it. Callers hold t.mu.
func (t *Tracker) publish(e Event) Event {
	e.RunID = t.runID
	e.Step = t.step
	e.Total = t.total
	e.Wave = t.wave
	e.Time = t.now()
	t.sink.Publish(e)
	return e
}

func moduleEvent(typ EventType, m *module.Module) Event {
	return Event{
		Type:       typ,
		Module:     m.Name,
		ModuleType: m.Type,
		Kind:       m.Kind,
		Dir:        m.DeclaringDir(),
	}
}
