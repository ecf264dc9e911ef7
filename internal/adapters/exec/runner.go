package exec

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Runner implements ports.CommandRunner with os/exec.
type Runner struct{}

// NewRunner creates a new command runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes the command synchronously, streaming output to the given
// writers. A non-zero exit comes back as (code, nil); an error is returned
// only when the process could not be started.
func (Runner) Run(ctx context.Context, command string, args []string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
