package scheduler

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/burstbuild/internal/module"
)

// ErrCancelled is reported when a run was cancelled before every module
// reached a terminal status.
var ErrCancelled = errors.New("build cancelled")

// ModuleBuildFailure records the phase in which a module failed.
type ModuleBuildFailure struct {
	Module string
	Phase  module.Phase
	Err    error
}

func (e *ModuleBuildFailure) Error() string {
	return fmt.Sprintf("module %q failed in %s phase: %v", e.Module, e.Phase, e.Err)
}

func (e *ModuleBuildFailure) Unwrap() error {
	return e.Err
}
