// Package app contains the core application logic. It wires the registry,
// scheduler, artifact writer and module index together behind a small set of
// use cases (build, refresh the index, query the index), decoupled from any
// specific entrypoint like a CLI or server.
package app
