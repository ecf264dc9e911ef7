// Package bootship is the startup orchestrator for the sentiment-service
// container. One invocation prepares the data pipeline, starts the
// experiment tracking server, gates on its HTTP readiness, and then
// replaces itself with the api server.
//
// Example usage:
//
//	cfg := bootship.DefaultConfig()
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	if err := bootship.Run(context.Background(), cfg, logger); err != nil {
//	    os.Exit(1)
//	}
package bootship

import (
	"context"
	"net/http"
	"os"
	"time"

	execadapter "github.com/mtp-labs/bootship/internal/adapters/exec"
	fsadapter "github.com/mtp-labs/bootship/internal/adapters/fs"
	httpadapter "github.com/mtp-labs/bootship/internal/adapters/http"
	"github.com/mtp-labs/bootship/internal/boot"
	"github.com/mtp-labs/bootship/internal/cliconfig"
	"github.com/mtp-labs/bootship/internal/launcher"
	"github.com/mtp-labs/bootship/internal/pipeline"
	"github.com/mtp-labs/bootship/pkg/log"
)

// Config holds the resolved orchestrator settings.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// Orchestrator sequences one container startup.
type Orchestrator = boot.Orchestrator

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// New wires an orchestrator with the production adapters: filesystem
// marker, os/exec stage runner, detached spawner, HTTP readiness probing,
// and execve process replacement.
func New(cfg Config, logger log.Logger) *Orchestrator {
	marker := fsadapter.NewMarkerFileRepository(cfg.StorageRoot)
	stages := pipeline.NewRunner(marker, execadapter.NewRunner(), logger, os.Stdout, os.Stderr)

	client := &http.Client{Timeout: launcher.DefaultAttemptTimeout}
	svc := launcher.New(
		execadapter.NewDetachedSpawner(),
		httpadapter.NewProber(client),
		httpadapter.NewTCPPortProber(500*time.Millisecond),
		logger,
	)

	return boot.NewOrchestrator(
		cfg,
		stages,
		svc,
		fsadapter.NewOwnershipFixer(),
		execadapter.NewPrivilegeDropper(),
		execadapter.NewReplacer(),
		logger,
	)
}

// Run executes the full startup sequence with the production wiring.
// On success it does not return; the process has been replaced by the
// api server. Any returned error is fatal.
func Run(ctx context.Context, cfg Config, logger log.Logger) error {
	return New(cfg, logger).Run(ctx)
}
