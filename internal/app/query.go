package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/burstbuild/internal/fsutil"
	"github.com/specialistvlad/burstbuild/internal/index"
)

// ErrNoModulesInDir is returned by QueryDir when nothing is declared in or
// beneath the requested directory.
var ErrNoModulesInDir = errors.New("no modules declared in directory")

// LoadIndex reads the persisted module index. It returns
// *index.IndexMissingError when no build has written one yet.
func (a *App) LoadIndex() (*index.Index, error) {
	return index.Load(a.fs, a.config.IndexPath)
}

// QueryAll returns every indexed module name, sorted.
func (a *App) QueryAll() ([]string, error) {
	idx, err := a.LoadIndex()
	if err != nil {
		return nil, err
	}
	return idx.All(), nil
}

// QueryPath returns the absolute declaring directory of the named module.
func (a *App) QueryPath(name string) (string, error) {
	e, err := a.entry(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(a.config.Root, filepath.FromSlash(first(e.Path))), nil
}

// QueryOut returns the installed artifact path of the named module.
func (a *App) QueryOut(name string) (string, error) {
	e, err := a.entry(name)
	if err != nil {
		return "", err
	}
	return filepath.FromSlash(first(e.Installed)), nil
}

// QueryDir returns the modules declared in dir or beneath it. dir may be
// absolute or relative to the source root.
func (a *App) QueryDir(dir string) ([]string, error) {
	idx, err := a.LoadIndex()
	if err != nil {
		return nil, err
	}
	names := idx.ByDirectory(fsutil.NormalizeDir(a.config.Root, dir))
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoModulesInDir, dir)
	}
	return names, nil
}

func (a *App) entry(name string) (index.Entry, error) {
	idx, err := a.LoadIndex()
	if err != nil {
		return index.Entry{}, err
	}
	return idx.ByName(name)
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
