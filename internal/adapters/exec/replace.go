package exec

import (
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// Replacer implements ports.ProcessReplacer with execve.
type Replacer struct{}

// NewReplacer creates a new process replacer.
func NewReplacer() *Replacer {
	return &Replacer{}
}

// Exec replaces the current process image with the given command,
// inheriting environment and open descriptors. On success it does not
// return; the new program's exit status becomes this process's.
func (Replacer) Exec(command string, args []string) error {
	path, err := exec.LookPath(command)
	if err != nil {
		return err
	}

	argv := append([]string{command}, args...)
	return unix.Exec(path, argv, os.Environ())
}
