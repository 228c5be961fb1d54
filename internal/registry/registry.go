package registry

import (
	"fmt"

	"github.com/specialistvlad/burstbuild/internal/config"
	"github.com/spf13/afero"
)

// DefaultFileName is the name of a module declaration file.
const DefaultFileName = "Blueprint.hcl"

// DefaultSkipDirs are root-relative directories that are never scanned.
var DefaultSkipDirs = []string{"out"}

// Registry discovers and loads module declarations.
type Registry struct {
	fs       afero.Fs
	loader   config.Loader
	fileName string
	skipDirs []string
}

// New creates a Registry that reads files named fileName from fs using loader.
// An empty fileName selects DefaultFileName and nil skipDirs selects
// DefaultSkipDirs.
func New(fs afero.Fs, loader config.Loader, fileName string, skipDirs ...string) *Registry {
	if fileName == "" {
		fileName = DefaultFileName
	}
	if skipDirs == nil {
		skipDirs = DefaultSkipDirs
	}
	return &Registry{
		fs:       fs,
		loader:   loader,
		fileName: fileName,
		skipDirs: skipDirs,
	}
}

// DuplicateModuleError reports two declarations that share a module name.
type DuplicateModuleError struct {
	Name         string
	Path         string
	PreviousPath string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("duplicate module %q: declared in %s and %s", e.Name, e.PreviousPath, e.Path)
}
