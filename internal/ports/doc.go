// Package ports defines the interfaces (ports) that connect the
// orchestration core to infrastructure adapters.
//
// The application packages (internal/pipeline, internal/launcher,
// internal/boot) depend only on these interfaces. Infrastructure adapters
// (internal/adapters) provide the concrete implementations: the filesystem
// marker, HTTP probing, and process execution.
//
//   - [MarkerRepository]: persists the pipeline-completion flag
//   - [CommandRunner]: runs a pipeline stage to completion
//   - [Spawner]: starts the tracking server detached, output to a log sink
//   - [HealthProber], [PortProber]: readiness probe attempts
//   - [ProcessReplacer]: exec-replaces bootship with the foreground service
//   - [PrivilegeDropper], [OwnershipFixer]: unprivileged-identity handling
//
// This separation keeps the polling and sequencing logic free of
// filesystem and process concerns, and testable with fakes.
package ports
