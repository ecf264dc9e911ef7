package cliconfig

import (
	"errors"
	"testing"
	"time"

	"github.com/mtp-labs/bootship/internal/domain"
)

func TestValidate_DerivesTrackingDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageRoot = "/data"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.TrackingDir != "/data/mlruns" {
		t.Fatalf("expected derived tracking dir /data/mlruns, got %s", cfg.TrackingDir)
	}
}

func TestValidate_KeepsExplicitTrackingDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrackingDir = "/elsewhere/runs"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.TrackingDir != "/elsewhere/runs" {
		t.Fatalf("explicit tracking dir overwritten: %s", cfg.TrackingDir)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty storage root", func(c *Config) { c.StorageRoot = "" }},
		{"tracking port zero", func(c *Config) { c.TrackingPort = 0 }},
		{"tracking port too big", func(c *Config) { c.TrackingPort = 70000 }},
		{"api port zero", func(c *Config) { c.APIPort = 0 }},
		{"port collision", func(c *Config) { c.APIPort = c.TrackingPort }},
		{"zero timeout", func(c *Config) { c.HealthTimeout = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TrackingPort != 5000 || cfg.APIPort != 8000 {
		t.Fatalf("unexpected default ports: %d/%d", cfg.TrackingPort, cfg.APIPort)
	}
	if cfg.HealthTimeout != 120*time.Second {
		t.Fatalf("unexpected default health timeout: %s", cfg.HealthTimeout)
	}
	if cfg.SkipPipeline || cfg.FixOwnership || cfg.DropPrivileges {
		t.Fatal("boolean options must default off")
	}
}

func TestHelpers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageRoot = "/data"
	cfg.TrackingPort = 5001
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if got := cfg.LogPath(); got != "/data/logs/tracking.log" {
		t.Fatalf("unexpected log path %s", got)
	}
	if got := cfg.HealthURL(); got != "http://127.0.0.1:5001/" {
		t.Fatalf("unexpected health url %s", got)
	}

	id := cfg.Identity()
	if id.UID != 1000 || id.GID != 1000 || id.Username != "mtp" {
		t.Fatalf("unexpected identity %+v", id)
	}
}
