package ports

import (
	"context"

	"github.com/mtp-labs/bootship/internal/domain"
)

// MarkerRepository persists the pipeline-completion flag across container
// invocations. Implementations store it durably (a file under the storage
// root) so that a restarted container skips already-done work.
type MarkerRepository interface {
	// State reports whether the pipeline has completed on this volume.
	// Returns MarkerPending and nil error when no marker exists.
	// Returns an error only for actual read failures.
	State(ctx context.Context) (domain.MarkerState, error)

	// Commit durably records pipeline completion, creating parent
	// directories as needed. The implementation should write atomically
	// (temp file, then rename) so a crash never leaves a corrupt marker.
	Commit(ctx context.Context, marker domain.Marker) error
}
