// Package boot drives the container startup sequence: preparatory pipeline
// stages, the readiness-gated tracking server, then process replacement
// into the foreground API server.
package boot

import (
	"context"
	"fmt"
	"os"

	"github.com/mtp-labs/bootship/internal/cliconfig"
	"github.com/mtp-labs/bootship/internal/domain"
	"github.com/mtp-labs/bootship/internal/launcher"
	"github.com/mtp-labs/bootship/internal/ports"
	"github.com/mtp-labs/bootship/pkg/log"
)

// stageRunner runs the fixed stage sequence.
type stageRunner interface {
	Run(ctx context.Context, stages []domain.Stage, skip bool) (domain.PipelineOutcome, error)
}

// serviceLauncher spawns the tracking server and gates on readiness.
type serviceLauncher interface {
	Launch(ctx context.Context, spec launcher.Spec) (domain.ServiceHandle, error)
}

// Orchestrator sequences one container startup. It is single-shot: one
// Run per process lifetime, ending either in process replacement or a
// non-zero exit.
type Orchestrator struct {
	cfg      cliconfig.Config
	machine  *Machine
	stages   stageRunner
	launcher serviceLauncher
	fixer    ports.OwnershipFixer
	dropper  ports.PrivilegeDropper
	replacer ports.ProcessReplacer
	logger   log.Logger

	// tracking holds the backing service handle once readiness is
	// confirmed. Monitoring reference only; bootship never manages the
	// process's lifecycle after that.
	tracking domain.ServiceHandle
}

// NewOrchestrator wires an orchestrator from its collaborators.
func NewOrchestrator(
	cfg cliconfig.Config,
	stages stageRunner,
	svc serviceLauncher,
	fixer ports.OwnershipFixer,
	dropper ports.PrivilegeDropper,
	replacer ports.ProcessReplacer,
	logger log.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		machine:  NewMachine(logger),
		stages:   stages,
		launcher: svc,
		fixer:    fixer,
		dropper:  dropper,
		replacer: replacer,
		logger:   logger,
	}
}

// State exposes the machine's current state.
func (o *Orchestrator) State() State {
	return o.machine.State()
}

// Tracking returns the backing service handle. Zero until ServiceReady.
func (o *Orchestrator) Tracking() domain.ServiceHandle {
	return o.tracking
}

// Run executes the full startup sequence. On success it does not return:
// the process has been replaced by the foreground service. Any returned
// error is fatal and maps to exit code 1.
func (o *Orchestrator) Run(ctx context.Context) error {
	if err := o.ensureDirs(); err != nil {
		return fmt.Errorf("prepare storage: %w", err)
	}

	// Best effort: a failed chown is a warning, never an abort.
	if o.cfg.FixOwnership {
		id := o.cfg.Identity()
		if err := o.fixer.FixTree(o.cfg.TrackingDir, id); err != nil {
			o.logger.Warn("ownership fix failed, continuing",
				log.String("dir", o.cfg.TrackingDir),
				log.Int("uid", id.UID),
				log.Err(err),
			)
		}
	}

	o.must(StateStagesRunning, "storage prepared")

	outcome, err := o.stages.Run(ctx, StageList(o.cfg), o.cfg.SkipPipeline)
	o.must(StateStagesResolved, outcome.String())
	if err != nil {
		o.must(StateAborted, "pipeline error")
		return fmt.Errorf("pipeline: %w", err)
	}
	if outcome.Failed() {
		o.must(StateAborted, "stage failed")
		return fmt.Errorf("%w: stage %s exited %d",
			domain.ErrStageFailed, outcome.FailedStage, outcome.ExitCode)
	}

	o.must(StateServiceStarting, "pipeline resolved")

	handle, err := o.launcher.Launch(ctx, TrackingSpec(o.cfg))
	if err != nil {
		o.must(StateServiceFailed, "launch failed")
		o.must(StateAborted, "tracking server not ready")
		return fmt.Errorf("tracking server: %w", err)
	}
	o.tracking = handle
	o.must(StateServiceReady, "health endpoint answered 2xx")

	o.must(StateAppLaunching, "tracking server ready")

	// Capability invoked exactly once, on this transition only.
	if o.cfg.DropPrivileges {
		id := o.cfg.Identity()
		if err := o.dropper.Drop(id); err != nil {
			o.must(StateAborted, "privilege drop failed")
			return fmt.Errorf("%w: drop to uid %d: %v", domain.ErrLaunchFailed, id.UID, err)
		}
		o.logger.Info("dropped privileges",
			log.Int("uid", id.UID),
			log.Int("gid", id.GID),
			log.String("user", id.Username),
		)
	}

	bin, args := APICommand(o.cfg)
	o.logger.Info("handing off to api server",
		log.String("command", bin),
		log.Int("port", o.cfg.APIPort),
		log.Int("tracking_pid", handle.PID),
	)

	if err := o.replacer.Exec(bin, args); err != nil {
		o.must(StateAborted, "exec failed")
		return fmt.Errorf("%w: exec %s: %v", domain.ErrLaunchFailed, bin, err)
	}

	// Only reachable with a test double; execve does not return on success.
	o.must(StateRunning, "process replaced")
	return nil
}

// RunPipelineOnly runs just the stage sequence, honoring the marker, and
// never starts either service. Backs the run-pipeline verb.
func (o *Orchestrator) RunPipelineOnly(ctx context.Context) (domain.PipelineOutcome, error) {
	if err := o.ensureDirs(); err != nil {
		return domain.PipelineOutcome{Status: domain.PipelineFailed}, fmt.Errorf("prepare storage: %w", err)
	}
	return o.stages.Run(ctx, StageList(o.cfg), false)
}

// ensureDirs creates the storage root and tracking data directory. Both
// are shared with the stage commands and the tracking server.
func (o *Orchestrator) ensureDirs() error {
	if err := os.MkdirAll(o.cfg.StorageRoot, 0o755); err != nil {
		return err
	}
	return os.MkdirAll(o.cfg.TrackingDir, 0o755)
}

// must applies a transition that the sequential flow guarantees is valid.
// A violation is a programming error.
func (o *Orchestrator) must(next State, reason string) {
	if err := o.machine.TransitionTo(next, reason); err != nil {
		panic(err)
	}
}
