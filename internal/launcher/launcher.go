// Package launcher starts the tracking server detached from bootship's
// session and gates on its HTTP readiness within a bounded polling loop.
package launcher

import (
	"context"
	"fmt"
	"time"

	"github.com/mtp-labs/bootship/internal/domain"
	"github.com/mtp-labs/bootship/internal/ports"
	"github.com/mtp-labs/bootship/pkg/log"
)

const (
	// DefaultPollInterval is the pause between readiness probe attempts.
	DefaultPollInterval = time.Second

	// DefaultAttemptTimeout bounds a single probe attempt.
	DefaultAttemptTimeout = 2 * time.Second

	// tailLineCount is how much of the log sink is surfaced on timeout.
	tailLineCount = 200
)

// Spec describes one launch: the command to spawn, where its output goes,
// and how readiness is determined.
type Spec struct {
	Command   string
	Args      []string
	LogPath   string
	HealthURL string
	Port      int
	Timeout   time.Duration
}

// Launcher spawns a long-running background process and polls its health
// endpoint until it answers 2xx or the deadline elapses.
type Launcher struct {
	spawner ports.Spawner
	prober  ports.HealthProber
	port    ports.PortProber
	logger  log.Logger

	// PollInterval and AttemptTimeout default to the package constants;
	// tests shorten them.
	PollInterval   time.Duration
	AttemptTimeout time.Duration
}

// New creates a launcher.
func New(spawner ports.Spawner, prober ports.HealthProber, port ports.PortProber, logger log.Logger) *Launcher {
	return &Launcher{
		spawner:        spawner,
		prober:         prober,
		port:           port,
		logger:         logger,
		PollInterval:   DefaultPollInterval,
		AttemptTimeout: DefaultAttemptTimeout,
	}
}

// Launch spawns the process and blocks until it is ready or the deadline
// passes. On timeout the log sink's tail is surfaced as diagnostics and the
// process is left running: it may still become healthy later, and killing a
// long-lived sibling service here would be surprising.
func (l *Launcher) Launch(ctx context.Context, spec Spec) (domain.ServiceHandle, error) {
	pid, err := l.spawner.Spawn(spec.Command, spec.Args, spec.LogPath)
	if err != nil {
		return domain.ServiceHandle{}, fmt.Errorf("%w: spawn %s: %v", domain.ErrLaunchFailed, spec.Command, err)
	}

	handle := domain.ServiceHandle{PID: pid, LogPath: spec.LogPath, Port: spec.Port}
	l.logger.Info("service spawned",
		log.Int("pid", pid),
		log.String("log", spec.LogPath),
		log.Duration("timeout", spec.Timeout),
	)

	follower := NewFollower(spec.LogPath, l.logger)
	if err := follower.Start(); err != nil {
		l.logger.Warn("log follower unavailable", log.Err(err))
	} else {
		defer follower.Stop()
	}

	deadline := time.Now().Add(spec.Timeout)
	ticker := time.NewTicker(l.PollInterval)
	defer ticker.Stop()

	attempt := 0
	for {
		select {
		case <-ctx.Done():
			return handle, ctx.Err()
		case <-ticker.C:
		}
		attempt++

		attemptCtx, cancel := context.WithTimeout(ctx, l.AttemptTimeout)
		result := l.prober.Probe(attemptCtx, spec.HealthURL)
		cancel()

		switch result {
		case domain.ProbeReady:
			l.logger.Info("service ready", log.Int("pid", pid), log.Int("attempt", attempt))
			return handle, nil
		case domain.ProbeNotYetReady:
			l.logger.Debug("service answered but not ready", log.Int("attempt", attempt))
		case domain.ProbeUnreachable:
			// The port accepting connections before the HTTP layer does is
			// a weaker signal, logged for diagnosis only.
			if l.port != nil && l.port.Listening(spec.Port) {
				l.logger.Debug("port open but health endpoint unreachable", log.Int("attempt", attempt))
			} else {
				l.logger.Debug("service unreachable", log.Int("attempt", attempt))
			}
		}

		if time.Now().After(deadline) {
			l.surfaceTail(spec.LogPath)
			return handle, fmt.Errorf("%w: no 2xx from %s within %s",
				domain.ErrReadinessTimeout, spec.HealthURL, spec.Timeout)
		}
	}
}

// surfaceTail logs the last lines of the log sink so the failure can be
// diagnosed without a shell into the container.
func (l *Launcher) surfaceTail(logPath string) {
	lines, err := TailLines(logPath, tailLineCount)
	if err != nil {
		l.logger.Warn("could not read service log", log.String("log", logPath), log.Err(err))
		return
	}
	l.logger.Error("service did not become ready, log tail follows",
		log.String("log", logPath),
		log.Int("lines", len(lines)),
	)
	for _, line := range lines {
		l.logger.Error(line)
	}
}
