// Package config defines the format-agnostic declaration model for the build
// orchestrator, along with the Loader interface used to read declarations from
// a concrete file format.
//
// The `config.Declaration` list is the only input the registry consumes.
// Concrete implementations of the Loader, such as for HCL, are provided in
// separate packages.
package config
