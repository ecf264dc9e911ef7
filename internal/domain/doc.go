// Package domain holds the core value types of the bootship orchestration
// model: pipeline stages and their outcomes, the durable completion marker,
// service handles, probe results, and the fatal error taxonomy.
//
// The package has no dependencies on infrastructure; adapters and the
// application layer depend on it, never the other way around.
package domain
