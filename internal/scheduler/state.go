package scheduler

import (
	"sync"

	"github.com/specialistvlad/burstbuild/internal/artifact"
	"github.com/specialistvlad/burstbuild/internal/module"
)

// stateTable holds the mutable per-run state of every module in the closure.
// The graph itself stays read-only; workers only ever touch their own
// module's entries, so independent keys never contend.
type stateTable struct {
	states    sync.Map // Key: module name, Value: module.Status
	artifacts sync.Map // Key: module name, Value: *artifact.Artifact
	failures  sync.Map // Key: module name, Value: *ModuleBuildFailure
	causes    sync.Map // Key: module name, Value: name of the blocking dependency
}

func newStateTable(names []string) *stateTable {
	st := &stateTable{}
	for _, name := range names {
		st.states.Store(name, module.Pending)
	}
	return st
}

func (s *stateTable) setStatus(name string, status module.Status) {
	s.states.Store(name, status)
}

// status returns Pending for names that were never set.
func (s *stateTable) status(name string) module.Status {
	v, ok := s.states.Load(name)
	if !ok {
		return module.Pending
	}
	return v.(module.Status)
}

func (s *stateTable) setArtifact(name string, a *artifact.Artifact) {
	s.artifacts.Store(name, a)
}

func (s *stateTable) setFailure(name string, f *ModuleBuildFailure) {
	s.failures.Store(name, f)
}

func (s *stateTable) setCause(name, dep string) {
	s.causes.Store(name, dep)
}

// snapshot copies the table into a Result. It must only be called once every
// worker has joined.
func (s *stateTable) snapshot(r *Result) {
	s.states.Range(func(k, v any) bool {
		r.Statuses[k.(string)] = v.(module.Status)
		return true
	})
	s.artifacts.Range(func(k, v any) bool {
		r.Artifacts[k.(string)] = v.(*artifact.Artifact)
		return true
	})
	s.failures.Range(func(k, v any) bool {
		r.Failures[k.(string)] = v.(*ModuleBuildFailure)
		return true
	})
	s.causes.Range(func(k, v any) bool {
		r.SkipCauses[k.(string)] = v.(string)
		return true
	})
}
