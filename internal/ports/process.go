package ports

import "github.com/mtp-labs/bootship/internal/domain"

// ProcessReplacer hands the current process's identity to another program.
// On success the call never returns: the foreground service inherits the
// pid, open descriptors, and environment, and its exit status becomes the
// container's exit status. A returned error means the replacement failed.
type ProcessReplacer interface {
	Exec(command string, args []string) error
}

// PrivilegeDropper switches the effective identity to an unprivileged
// user. Invoked at most once, immediately before process replacement.
type PrivilegeDropper interface {
	Drop(id domain.Identity) error
}

// OwnershipFixer adjusts ownership of persisted storage to an unprivileged
// identity. Best effort: the orchestrator logs failures and continues.
type OwnershipFixer interface {
	FixTree(path string, id domain.Identity) error
}
