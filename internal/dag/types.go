package dag

import "github.com/specialistvlad/burstbuild/internal/module"

// Graph is a collection of modules and their dependencies, representing a DAG.
// It is mutated only while the registry loads declarations.
type Graph struct {
	// root is the source root that declaring paths are relative to.
	root string
	// nodes stores all nodes in the graph, keyed by module name.
	nodes map[string]*node
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using module names),
// not by direct struct manipulation.
type node struct {
	module *module.Module
	// deps holds the set of nodes that this node depends on (predecessors).
	deps map[string]*node
	// dependents holds the set of nodes that depend on this node (successors).
	dependents map[string]*node
}

func (n *node) name() string {
	return n.module.Name
}
