// Package monitoring implements the in-process telemetry pipeline: a bounded
// trace buffer with on-demand analysis, a resource sampler, periodic health
// checks, threshold-based alerting with lifecycle tracking, and the Monitor
// orchestrator that drives them on a recurring cycle.
//
// All state lives in memory for the lifetime of the process. Each component
// guards its own state with a mutex; no state is shared between components.
package monitoring
