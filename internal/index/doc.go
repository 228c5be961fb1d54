// Package index maintains the persisted module index, a JSON file mapping
// every module name to its class, declaring directory, tags and installed
// artifact path.
//
// The index is derived data. It is rebuilt from the dependency graph after
// each build and never consulted when deciding what to build; query commands
// read it so they can answer without rescanning the source tree.
package index
