package domain

import "fmt"

// Stage is one idempotent unit of preparatory work in the fixed pipeline
// sequence. Identity is positional: stages run strictly in declared order.
type Stage struct {
	// Name identifies the stage in logs and failure reports.
	Name string

	// Command is the executable to run.
	Command string

	// Args are passed to the command verbatim.
	Args []string
}

// PipelineStatus is the outcome class of a pipeline run.
type PipelineStatus int

const (
	// PipelineSkipped means the skip flag was set; nothing ran and no
	// marker was touched.
	PipelineSkipped PipelineStatus = iota

	// PipelineCompleted means every stage exited zero, or the completion
	// marker was already present.
	PipelineCompleted

	// PipelineFailed means a stage exited non-zero and the remaining
	// stages were not run.
	PipelineFailed
)

// String returns a human-readable representation of the status.
func (s PipelineStatus) String() string {
	switch s {
	case PipelineSkipped:
		return "Skipped"
	case PipelineCompleted:
		return "Completed"
	case PipelineFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// PipelineOutcome is the result of running the stage sequence.
type PipelineOutcome struct {
	Status PipelineStatus

	// FailedStage is the name of the stage that exited non-zero.
	// Empty unless Status is PipelineFailed.
	FailedStage string

	// ExitCode is the failed stage's exit code. Zero unless Status is
	// PipelineFailed.
	ExitCode int
}

// Failed reports whether the outcome is a failure.
func (o PipelineOutcome) Failed() bool {
	return o.Status == PipelineFailed
}

// String returns a short description of the outcome.
func (o PipelineOutcome) String() string {
	if o.Status == PipelineFailed {
		return fmt.Sprintf("Failed(stage=%s, exit=%d)", o.FailedStage, o.ExitCode)
	}
	return o.Status.String()
}
