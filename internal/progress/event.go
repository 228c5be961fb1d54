package progress

import (
	"time"

	"github.com/specialistvlad/burstbuild/internal/module"
)

// EventType distinguishes the kinds of progress events.
type EventType string

const (
	// EventRunStarted is emitted once, before the first wave.
	EventRunStarted EventType = "run-started"
	// EventWaveStarted is emitted when a wave is about to be dispatched.
	EventWaveStarted EventType = "wave-started"
	// EventPhaseFinished is emitted after every completed phase and advances Step.
	EventPhaseFinished EventType = "phase-finished"
	// EventModuleFinished is emitted when a module reaches a terminal status.
	EventModuleFinished EventType = "module-finished"
	// EventRunFinished is emitted once, after the last wave.
	EventRunFinished EventType = "run-finished"
)

// Event is a single progress notification.
type Event struct {
	RunID string    `json:"run_id"`
	Type  EventType `json:"type"`

	// Step counts completed phases across the whole run.
	Step  int `json:"step"`
	Total int `json:"total"`

	// Wave is the zero-based wave index, -1 outside any wave.
	Wave     int `json:"wave"`
	WaveSize int `json:"wave_size,omitempty"`

	Module     string       `json:"module,omitempty"`
	ModuleType string       `json:"module_type,omitempty"`
	Kind       module.Kind  `json:"kind,omitempty"`
	Dir        string       `json:"dir,omitempty"`
	Phase      module.Phase `json:"phase,omitempty"`
	Status     string       `json:"status,omitempty"`
	Time       time.Time    `json:"time"`
}

// Percent returns Step as a whole percentage of Total.
func (e Event) Percent() int {
	if e.Total <= 0 {
		return 0
	}
	return e.Step * 100 / e.Total
}
