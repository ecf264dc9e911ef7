// Package pipeline runs the fixed preparatory stage sequence
// (ingest, preprocess, train) with marker-based idempotency.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mtp-labs/bootship/internal/domain"
	"github.com/mtp-labs/bootship/internal/ports"
	"github.com/mtp-labs/bootship/pkg/log"
)

// Runner executes an ordered list of stages, honoring the completion
// marker and a global skip flag. The first non-zero stage aborts the rest.
type Runner struct {
	marker ports.MarkerRepository
	exec   ports.CommandRunner
	logger log.Logger

	// Stage output streams through to these unbuffered so progress is
	// observable in real time.
	stdout io.Writer
	stderr io.Writer
}

// NewRunner creates a stage runner.
func NewRunner(marker ports.MarkerRepository, exec ports.CommandRunner, logger log.Logger, stdout, stderr io.Writer) *Runner {
	return &Runner{
		marker: marker,
		exec:   exec,
		logger: logger,
		stdout: stdout,
		stderr: stderr,
	}
}

// Run executes the stage sequence.
//
// With skip set, it returns PipelineSkipped without touching the marker or
// any command. If the completion marker already exists, it returns
// PipelineCompleted without re-running anything. Otherwise stages run
// synchronously in declared order; the first non-zero exit yields
// PipelineFailed and no marker is written. Only after every stage exits
// zero is the marker committed.
func (r *Runner) Run(ctx context.Context, stages []domain.Stage, skip bool) (domain.PipelineOutcome, error) {
	if skip {
		r.logger.Info("pipeline disabled, skipping all stages")
		return domain.PipelineOutcome{Status: domain.PipelineSkipped}, nil
	}

	state, err := r.marker.State(ctx)
	if err != nil {
		return domain.PipelineOutcome{Status: domain.PipelineFailed}, fmt.Errorf("read completion marker: %w", err)
	}
	if state == domain.MarkerCompleted {
		r.logger.Info("pipeline already completed, marker present")
		return domain.PipelineOutcome{Status: domain.PipelineCompleted}, nil
	}

	for _, stage := range stages {
		r.logger.Info("running stage", log.String("stage", stage.Name), log.String("command", stage.Command))
		start := time.Now()

		code, err := r.exec.Run(ctx, stage.Command, stage.Args, r.stdout, r.stderr)
		if err != nil {
			return domain.PipelineOutcome{Status: domain.PipelineFailed, FailedStage: stage.Name},
				fmt.Errorf("stage %s: %w: %v", stage.Name, domain.ErrLaunchFailed, err)
		}
		if code != 0 {
			r.logger.Error("stage failed",
				log.String("stage", stage.Name),
				log.Int("exit_code", code),
				log.Duration("elapsed", time.Since(start)),
			)
			return domain.PipelineOutcome{
				Status:      domain.PipelineFailed,
				FailedStage: stage.Name,
				ExitCode:    code,
			}, nil
		}

		r.logger.Info("stage completed",
			log.String("stage", stage.Name),
			log.Duration("elapsed", time.Since(start)),
		)
	}

	if err := r.marker.Commit(ctx, domain.Marker{CompletedAt: time.Now()}); err != nil {
		return domain.PipelineOutcome{Status: domain.PipelineFailed}, fmt.Errorf("write completion marker: %w", err)
	}

	r.logger.Info("pipeline completed", log.Int("stages", len(stages)))
	return domain.PipelineOutcome{Status: domain.PipelineCompleted}, nil
}
