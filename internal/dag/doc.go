// Package dag holds the dependency graph over registry modules. It is the
// single owner of every Module and of the adjacency relation between them.
//
// The graph is assembled once by the registry and is read-only afterwards, so
// the scheduler can traverse it from many goroutines without locking. It
// provides cycle detection, wave partitioning for parallel scheduling,
// transitive closure and resolution of user-supplied target tokens.
package dag
