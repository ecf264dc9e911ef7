package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mtp-labs/bootship/internal/domain"
)

func TestMarkerLifecycle(t *testing.T) {
	dir := t.TempDir()
	repo := NewMarkerFileRepository(dir)
	ctx := context.Background()

	state, err := repo.State(ctx)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state != domain.MarkerPending {
		t.Fatalf("expected Pending before commit, got %s", state)
	}

	now := time.Now()
	if err := repo.Commit(ctx, domain.Marker{CompletedAt: now}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	state, err = repo.State(ctx)
	if err != nil {
		t.Fatalf("state after commit: %v", err)
	}
	if state != domain.MarkerCompleted {
		t.Fatalf("expected Completed after commit, got %s", state)
	}

	// Payload is diagnostic only, but it should be valid JSON.
	data, err := os.ReadFile(repo.Path())
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	var m domain.Marker
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal marker: %v", err)
	}
	if m.CompletedAt.IsZero() {
		t.Fatal("completed_at not recorded")
	}
}

func TestCommit_CreatesParents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "storage")
	repo := NewMarkerFileRepository(dir)

	if err := repo.Commit(context.Background(), domain.Marker{CompletedAt: time.Now()}); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := os.Stat(repo.Path()); err != nil {
		t.Fatalf("marker not created: %v", err)
	}
}

func TestCommit_LeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	repo := NewMarkerFileRepository(dir)

	if err := repo.Commit(context.Background(), domain.Marker{CompletedAt: time.Now()}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected just the marker, found %d entries", len(entries))
	}
}

func TestState_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	if err := NewMarkerFileRepository(dir).Commit(ctx, domain.Marker{CompletedAt: time.Now()}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	// A fresh repository over the same directory models a restarted
	// container seeing the same volume.
	state, err := NewMarkerFileRepository(dir).State(ctx)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state != domain.MarkerCompleted {
		t.Fatalf("marker did not survive reopen: %s", state)
	}
}
