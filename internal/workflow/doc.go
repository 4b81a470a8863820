// Package workflow drives queue items through the caption pipeline.
//
// A single manager loop claims the oldest actionable item, runs the stage
// registered for its status, and persists the resulting transition. Stage
// execution is wrapped by a heartbeat so a crashed daemon's in-flight items
// can be reclaimed on restart.
package workflow
