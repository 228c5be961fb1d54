package dag

import (
	"fmt"
	"strings"
)

// CyclicDependencyError indicates that the graph contains a cycle. Cycle is
// the full path, starting and ending with the same module.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency detected: %s", strings.Join(e.Cycle, " -> "))
}

// ModuleNotFoundError reports a name or target token that matches no module.
// ReferencedBy is set when the name came from another module's dependency
// list, in which case Path is that module's declaring file.
type ModuleNotFoundError struct {
	Name         string
	ReferencedBy string
	Path         string
}

func (e *ModuleNotFoundError) Error() string {
	if e.ReferencedBy != "" {
		return fmt.Sprintf("module %q depends on undeclared module %q (declared in %s)", e.ReferencedBy, e.Name, e.Path)
	}
	return fmt.Sprintf("no module or directory matches target %q", e.Name)
}
