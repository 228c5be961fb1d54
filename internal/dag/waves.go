package dag

import (
	"maps"
	"slices"
)

// Closure returns the sorted set of names reachable from the given names
// through dependency edges, including the names themselves.
func (g *Graph) Closure(names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	queue := make([]*node, 0, len(names))
	for _, name := range names {
		n, ok := g.nodes[name]
		if !ok {
			return nil, &ModuleNotFoundError{Name: name}
		}
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			queue = append(queue, n)
		}
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for depName, dep := range n.deps {
			if _, ok := seen[depName]; ok {
				continue
			}
			seen[depName] = struct{}{}
			queue = append(queue, dep)
		}
	}
	return slices.Sorted(maps.Keys(seen)), nil
}

// Waves partitions the given modules into dependency levels. Every module in
// wave i depends only on modules in waves before i, and each wave holds every
// module whose dependencies inside the set are already satisfied. Names within
// a wave are sorted. Dependencies outside the given set are ignored, so callers
// normally pass a Closure.
func (g *Graph) Waves(names []string) ([][]string, error) {
	inSet := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := g.nodes[name]; !ok {
			return nil, &ModuleNotFoundError{Name: name}
		}
		inSet[name] = struct{}{}
	}

	// Kahn's algorithm, one level at a time.
	pending := make(map[string]int, len(inSet))
	var current []string
	for name := range inSet {
		count := 0
		for depName := range g.nodes[name].deps {
			if _, ok := inSet[depName]; ok {
				count++
			}
		}
		pending[name] = count
		if count == 0 {
			current = append(current, name)
		}
	}

	var waves [][]string
	placed := 0
	for len(current) > 0 {
		slices.Sort(current)
		waves = append(waves, current)
		placed += len(current)

		var next []string
		for _, name := range current {
			for depName := range g.nodes[name].dependents {
				if _, ok := inSet[depName]; !ok {
					continue
				}
				pending[depName]--
				if pending[depName] == 0 {
					next = append(next, depName)
				}
			}
		}
		current = next
	}

	if placed != len(inSet) {
		return nil, &CyclicDependencyError{Cycle: g.DetectCycle()}
	}
	return waves, nil
}

// TopologicalOrder returns the waves of the whole graph.
func (g *Graph) TopologicalOrder() ([][]string, error) {
	return g.Waves(g.names())
}
