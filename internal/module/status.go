// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package module

// Status represents the execution state of a module within one build run.
type Status int32

const (
	// Pending indicates the module is waiting for its wave.
	Pending Status = iota
	// Ready indicates every dependency is Done and the module may be dispatched.
	Ready
	// Running indicates a worker is executing the module's phases.
	Running
	// Done indicates the module built successfully and its artifact exists.
	Done
	// Failed indicates one of the module's phases or its artifact write failed.
	Failed
	// Skipped indicates the module was not dispatched because a dependency
	// did not reach Done.
	Skipped
	// Cancelled indicates the run was cancelled before the module finished.
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Done:
		return "done"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen in this run.
func (s Status) Terminal() bool {
	return s == Done || s == Failed || s == Skipped || s == Cancelled
}
