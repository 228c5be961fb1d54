// Package progress defines the structured event stream a build run emits.
//
// The scheduler reports through a Tracker, which numbers completed phases
// with a run-wide step counter and forwards each Event to a Sink. Events are
// delivered to the sink one at a time and in step order, so console printers,
// the healthcheck endpoint and remote publishers all observe the same
// monotonic sequence.
package progress
