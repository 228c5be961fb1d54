package dag

import (
	"github.com/specialistvlad/burstbuild/internal/fsutil"
)

// AllModulesTarget is the token that selects every module in the graph.
const AllModulesTarget = "all_modules"

// ResolveTarget maps a user-supplied token to module names. A token naming a
// module selects that module. Otherwise the token is treated as a directory,
// relative to the graph root or absolute, and selects every module declared
// in it or beneath it. The result is sorted.
func (g *Graph) ResolveTarget(token string) ([]string, error) {
	if token == AllModulesTarget {
		return g.names(), nil
	}
	if _, ok := g.nodes[token]; ok {
		return []string{token}, nil
	}

	out := g.ModulesInDir(token)
	if len(out) == 0 {
		return nil, &ModuleNotFoundError{Name: token}
	}
	return out, nil
}

// ModulesInDir returns the modules declared in dir or beneath it, sorted by
// name. An empty result is not an error.
func (g *Graph) ModulesInDir(dir string) []string {
	dir = fsutil.NormalizeDir(g.root, dir)
	var out []string
	for _, name := range g.names() {
		if fsutil.Contains(dir, g.nodes[name].module.DeclaringDir()) {
			out = append(out, name)
		}
	}
	return out
}
