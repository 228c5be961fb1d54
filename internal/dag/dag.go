package dag

import (
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/burstbuild/internal/module"
)

// New creates and returns an initialized, empty Graph for the given source root.
func New(root string) *Graph {
	return &Graph{
		root:  root,
		nodes: make(map[string]*node),
	}
}

// Root returns the source root the graph was loaded from.
func (g *Graph) Root() string {
	return g.root
}

// AddModule adds a module to the graph. Names are unique; adding a second
// module with the same name is an error.
func (g *Graph) AddModule(m *module.Module) error {
	if _, ok := g.nodes[m.Name]; ok {
		return fmt.Errorf("module already in graph: %s", m.Name)
	}
	g.nodes[m.Name] = &node{
		module:     m,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
	return nil
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode
	return nil
}

// Link turns every module's declared dependencies into edges. A dependency
// naming an undeclared module yields a *ModuleNotFoundError.
func (g *Graph) Link() error {
	for _, name := range g.names() {
		m := g.nodes[name].module
		for _, dep := range m.Dependencies {
			if _, ok := g.nodes[dep]; !ok {
				return &ModuleNotFoundError{Name: dep, ReferencedBy: m.Name, Path: m.DeclaringPath}
			}
			if err := g.AddEdge(dep, m.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Len returns the number of modules in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Module returns the module with the given name.
func (g *Graph) Module(name string) (*module.Module, bool) {
	n, ok := g.nodes[name]
	if !ok {
		return nil, false
	}
	return n.module, true
}

// Modules returns every module sorted by name.
func (g *Graph) Modules() []*module.Module {
	out := make([]*module.Module, 0, len(g.nodes))
	for _, name := range g.names() {
		out = append(out, g.nodes[name].module)
	}
	return out
}

// Dependencies returns the sorted names of the modules the given module depends on.
func (g *Graph) Dependencies(name string) ([]string, error) {
	n, ok := g.nodes[name]
	if !ok {
		return nil, &ModuleNotFoundError{Name: name}
	}
	return slices.Sorted(maps.Keys(n.deps)), nil
}

// Dependents returns the sorted names of the modules that depend on the given module.
func (g *Graph) Dependents(name string) ([]string, error) {
	n, ok := g.nodes[name]
	if !ok {
		return nil, &ModuleNotFoundError{Name: name}
	}
	return slices.Sorted(maps.Keys(n.dependents)), nil
}

// DetectCycle returns the first dependency cycle found, as a path that starts
// and ends with the same module, or nil if the graph is acyclic. Modules and
// their dependencies are visited in name order so the reported path is stable.
func (g *Graph) DetectCycle() []string {
	// Classic depth-first search with three colors:
	// visited: fully explored and not part of a cycle.
	// visiting: on the current recursion stack.
	// unvisited: everything else.
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[string]int, len(g.nodes))
	var stack, cycle []string

	var visit func(n *node) bool
	visit = func(n *node) bool {
		state[n.name()] = visiting
		stack = append(stack, n.name())

		for _, depName := range slices.Sorted(maps.Keys(n.deps)) {
			switch state[depName] {
			case visiting:
				start := slices.Index(stack, depName)
				cycle = append(slices.Clone(stack[start:]), depName)
				return true
			case unvisited:
				if visit(n.deps[depName]) {
					return true
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[n.name()] = visited
		return false
	}

	for _, name := range g.names() {
		if state[name] == unvisited && visit(g.nodes[name]) {
			return cycle
		}
	}
	return nil
}

// Validate returns a *CyclicDependencyError if the graph contains a cycle.
func (g *Graph) Validate() error {
	if cycle := g.DetectCycle(); cycle != nil {
		return &CyclicDependencyError{Cycle: cycle}
	}
	return nil
}

func (g *Graph) names() []string {
	return slices.Sorted(maps.Keys(g.nodes))
}
