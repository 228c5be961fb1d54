package index

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/specialistvlad/burstbuild/internal/artifact"
	"github.com/specialistvlad/burstbuild/internal/dag"
	"github.com/specialistvlad/burstbuild/internal/fsutil"
)

// FileName is the name of the index file inside the output directory.
const FileName = "module-info.json"

// DefaultPath returns the index location for outDir.
func DefaultPath(outDir string) string {
	return filepath.Join(outDir, FileName)
}

// Entry is the persisted projection of one module. The list-valued fields
// follow the module-info.json layout consumed by existing tooling.
type Entry struct {
	Class      []string `json:"class"`
	Path       []string `json:"path"`
	Tags       []string `json:"tags"`
	Installed  []string `json:"installed"`
	ModuleName string   `json:"module_name"`
}

// Index maps module names to entries.
type Index struct {
	entries map[string]Entry
}

// New wraps entries in an Index. Entries missing a module name get their key.
func New(entries map[string]Entry) *Index {
	idx := &Index{entries: make(map[string]Entry, len(entries))}
	for name, e := range entries {
		if e.ModuleName == "" {
			e.ModuleName = name
		}
		idx.entries[name] = e
	}
	return idx
}

// Rebuild derives a fresh index from every module in g. Installed paths are
// computed with artifact.Path under outDir whether or not the module has been
// built.
func Rebuild(g *dag.Graph, outDir string) *Index {
	entries := make(map[string]Entry, g.Len())
	for _, m := range g.Modules() {
		entries[m.Name] = Entry{
			Class:      []string{string(m.Kind.Class())},
			Path:       []string{m.DeclaringDir()},
			Tags:       slices.Clone(m.Tags),
			Installed:  []string{filepath.ToSlash(artifact.Path(outDir, m.Kind, m.Name))},
			ModuleName: m.Name,
		}
	}
	return &Index{entries: entries}
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// ByName returns the entry for name.
func (idx *Index) ByName(name string) (Entry, error) {
	e, ok := idx.entries[name]
	if !ok {
		return Entry{}, &UnknownModuleError{Name: name}
	}
	return e, nil
}

// All returns every module name, sorted.
func (idx *Index) All() []string {
	return slices.Sorted(maps.Keys(idx.entries))
}

// ByDirectory returns the sorted names of modules declared in dir or beneath
// it. dir is relative to the source root.
func (idx *Index) ByDirectory(dir string) []string {
	dir = fsutil.NormalizeDir("", dir)
	var out []string
	for _, name := range idx.All() {
		if slices.ContainsFunc(idx.entries[name].Path, func(p string) bool { return fsutil.Contains(dir, p) }) {
			out = append(out, name)
		}
	}
	return out
}

// IndexMissingError reports that no index has been written yet.
type IndexMissingError struct {
	Path string
}

func (e *IndexMissingError) Error() string {
	return fmt.Sprintf("module index not found at %s: run a build first", e.Path)
}

// UnknownModuleError reports a query for a name the index does not contain.
type UnknownModuleError struct {
	Name string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("module %q is not in the module index", e.Name)
}
