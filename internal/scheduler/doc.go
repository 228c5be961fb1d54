// Package scheduler builds modules in dependency order.
//
// A run takes the transitive closure of the requested targets, partitions it
// into waves with the dependency graph and dispatches each wave over a
// bounded worker pool. The next wave starts only when every module of the
// current one has reached a terminal status. Each dispatched module runs the
// stub, header, compile and link phases in order on one worker and then has
// its artifact written.
//
// Failures are isolated: a module whose dependency did not reach Done is
// marked Skipped and never dispatched, while unrelated modules keep building.
// Cancelling the run context stops dispatch; modules already running finish
// their current phase and then report Cancelled.
package scheduler
