package ports

import (
	"context"
	"io"
)

// CommandRunner executes an external command synchronously, streaming its
// output unbuffered so progress is observable in real time.
type CommandRunner interface {
	// Run blocks until the command exits and returns its exit code.
	// A non-nil error means the process could not be started at all;
	// a non-zero exit with a nil error is a normal command failure.
	Run(ctx context.Context, command string, args []string, stdout, stderr io.Writer) (int, error)
}

// Spawner starts a long-running background process detached from the
// caller's session, with combined output redirected to a log sink.
// The process must survive the caller later replacing itself via exec.
type Spawner interface {
	// Spawn starts the command and returns its pid without waiting.
	Spawn(command string, args []string, logPath string) (int, error)
}
