package domain

import "time"

// MarkerState is the durable pipeline-completion flag persisted under the
// storage root. Presence is the entire cross-invocation contract; the
// recorded timestamp exists for operators only and is never interpreted.
type MarkerState int

const (
	// MarkerPending means the pipeline has not completed on this volume.
	MarkerPending MarkerState = iota

	// MarkerCompleted means a prior invocation finished all stages.
	MarkerCompleted
)

// String returns a human-readable representation of the state.
func (s MarkerState) String() string {
	switch s {
	case MarkerPending:
		return "Pending"
	case MarkerCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Marker is the persisted completion record.
type Marker struct {
	// CompletedAt is when the pipeline finished. Diagnostic payload only.
	CompletedAt time.Time `json:"completed_at"`
}
