// Package registry turns a source tree into a dependency graph.
//
// The Registry discovers declaration files under a root, hands each one to a
// format-specific config.Loader and assembles the resulting modules into a
// dag.Graph. Loading is all-or-nothing: a malformed file, a duplicate module
// name or a reference to an undeclared module fails the whole load and no
// graph is returned.
package registry
