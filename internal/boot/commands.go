package boot

import (
	"path/filepath"
	"strconv"

	"github.com/mtp-labs/bootship/internal/cliconfig"
	"github.com/mtp-labs/bootship/internal/domain"
	"github.com/mtp-labs/bootship/internal/launcher"
)

// StageList returns the fixed ordered stage sequence. Order is the
// contract: a later stage never runs if an earlier one failed.
func StageList(cfg cliconfig.Config) []domain.Stage {
	return []domain.Stage{
		{Name: "ingest", Command: filepath.Join(cfg.PipelineDir, "ingest")},
		{Name: "preprocess", Command: filepath.Join(cfg.PipelineDir, "preprocess")},
		{Name: "train", Command: filepath.Join(cfg.PipelineDir, "train")},
	}
}

// TrackingSpec assembles the tracking server launch.
func TrackingSpec(cfg cliconfig.Config) launcher.Spec {
	return launcher.Spec{
		Command: cfg.TrackingBin,
		Args: []string{
			"server",
			"--backend-store-uri", "file://" + cfg.TrackingDir,
			"--host", "0.0.0.0",
			"--port", strconv.Itoa(cfg.TrackingPort),
		},
		LogPath:   cfg.LogPath(),
		HealthURL: cfg.HealthURL(),
		Port:      cfg.TrackingPort,
		Timeout:   cfg.HealthTimeout,
	}
}

// APICommand assembles the foreground service's argv.
func APICommand(cfg cliconfig.Config) (string, []string) {
	return cfg.APIBin, []string{
		cfg.APIApp,
		"--host", "0.0.0.0",
		"--port", strconv.Itoa(cfg.APIPort),
	}
}
