package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mtp-labs/bootship/internal/domain"
)

const markerFileName = "pipeline_complete.json"

// MarkerFileRepository implements ports.MarkerRepository with a file under
// the storage root. Presence of the file is the entire contract; the JSON
// payload records the completion time for operators only.
type MarkerFileRepository struct {
	dir string
}

// NewMarkerFileRepository creates a repository rooted at the given directory.
func NewMarkerFileRepository(dir string) *MarkerFileRepository {
	return &MarkerFileRepository{dir: dir}
}

// State reports whether the marker file exists.
// Returns MarkerPending and nil error if it does not.
func (r *MarkerFileRepository) State(ctx context.Context) (domain.MarkerState, error) {
	_, err := os.Stat(filepath.Join(r.dir, markerFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.MarkerPending, nil
		}
		return domain.MarkerPending, err
	}
	return domain.MarkerCompleted, nil
}

// Commit writes the marker atomically, creating parent directories as
// needed. Uses write-to-temp then rename so a crash never leaves a
// half-written marker that a later invocation would trust.
func (r *MarkerFileRepository) Commit(ctx context.Context, marker domain.Marker) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(r.dir, markerFileName)
	tmp := path + ".tmp"

	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// Path returns the full path to the marker file.
func (r *MarkerFileRepository) Path() string {
	return filepath.Join(r.dir, markerFileName)
}
