// Package settings holds the engine's durable process state: the settings
// document (probing paths, mount point records), the locale-partitioned
// template cache, and the Environment orchestrator that initializes the
// capability registry and mount point manager from them exactly once.
//
// Cross-process contention on the settings files is tolerated with a
// bounded-retry policy; within a process the Environment serializes
// initialization behind a mutex, so concurrent first callers block until
// loading completes.
package settings
