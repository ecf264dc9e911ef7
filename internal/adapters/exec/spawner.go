package exec

import (
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// DetachedSpawner implements ports.Spawner. The child runs in its own
// session so it survives bootship replacing itself with the foreground
// service, and its combined output goes to the log sink.
type DetachedSpawner struct{}

// NewDetachedSpawner creates a new detached spawner.
func NewDetachedSpawner() *DetachedSpawner {
	return &DetachedSpawner{}
}

// Spawn starts the command detached and returns its pid without waiting.
func (DetachedSpawner) Spawn(command string, args []string, logPath string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return 0, err
	}

	sink, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, err
	}
	defer sink.Close()

	cmd := exec.Command(command, args...)
	cmd.Stdout = sink
	cmd.Stderr = sink
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, err
	}

	pid := cmd.Process.Pid

	// Reap if the child exits before the exec replacement happens.
	go func() { _ = cmd.Wait() }()

	return pid, nil
}
