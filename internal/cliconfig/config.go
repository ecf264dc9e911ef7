package cliconfig

import (
	"fmt"
	"os/user"
	"strconv"
	"time"

	"github.com/mtp-labs/bootship/internal/domain"
)

// Config holds the resolved bootship settings. It is built once at startup
// from defaults, config file, environment, and flags (in that precedence
// order) and never mutated afterward.
type Config struct {
	// StorageRoot is the persisted volume shared by the pipeline stages
	// and the tracking server.
	StorageRoot string

	// TrackingDir is the tracking server's backing store.
	// Derived from StorageRoot when empty.
	TrackingDir string

	TrackingPort int
	APIPort      int

	// SkipPipeline disables the stage sequence entirely.
	SkipPipeline bool

	// HealthTimeout bounds the readiness wait for the tracking server.
	HealthTimeout time.Duration

	// FixOwnership enables the best-effort recursive chown of TrackingDir.
	FixOwnership bool

	// DropPrivileges switches to the unprivileged identity before the
	// foreground service is exec'd.
	DropPrivileges bool

	RunAsUID  int
	RunAsGID  int
	RunAsUser string

	// PipelineDir holds the stage executables (ingest, preprocess, train).
	PipelineDir string

	// TrackingBin, APIBin, APIApp parameterize the two service commands.
	TrackingBin string
	APIBin      string
	APIApp      string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		StorageRoot:   "/srv/mtp",
		TrackingPort:  5000,
		APIPort:       8000,
		HealthTimeout: 120 * time.Second,
		RunAsUID:      1000,
		RunAsGID:      1000,
		RunAsUser:     "mtp",
		PipelineDir:   "/app/pipeline",
		TrackingBin:   "mlflow",
		APIBin:        "uvicorn",
		APIApp:        "src.app:app",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.StorageRoot == "" {
		return fmt.Errorf("%w: storage-root is required", domain.ErrInvalidConfig)
	}

	if c.TrackingDir == "" {
		c.TrackingDir = c.StorageRoot + "/mlruns"
	}

	if c.TrackingPort <= 0 || c.TrackingPort > 65535 {
		return fmt.Errorf("%w: tracking port %d out of range", domain.ErrInvalidConfig, c.TrackingPort)
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("%w: api port %d out of range", domain.ErrInvalidConfig, c.APIPort)
	}
	if c.TrackingPort == c.APIPort {
		return fmt.Errorf("%w: tracking and api ports collide on %d", domain.ErrInvalidConfig, c.APIPort)
	}

	if c.HealthTimeout <= 0 {
		return fmt.Errorf("%w: health timeout must be positive", domain.ErrInvalidConfig)
	}

	// uid/gid <= 0 means "resolve from the username"; dropping to root
	// would defeat the point.
	if (c.DropPrivileges || c.FixOwnership) && (c.RunAsUID <= 0 || c.RunAsGID <= 0) {
		u, err := user.Lookup(c.RunAsUser)
		if err != nil {
			return fmt.Errorf("%w: resolve user %q: %v", domain.ErrInvalidConfig, c.RunAsUser, err)
		}
		uid, err := strconv.Atoi(u.Uid)
		if err != nil {
			return fmt.Errorf("%w: uid for %q: %v", domain.ErrInvalidConfig, c.RunAsUser, err)
		}
		gid, err := strconv.Atoi(u.Gid)
		if err != nil {
			return fmt.Errorf("%w: gid for %q: %v", domain.ErrInvalidConfig, c.RunAsUser, err)
		}
		if c.RunAsUID <= 0 {
			c.RunAsUID = uid
		}
		if c.RunAsGID <= 0 {
			c.RunAsGID = gid
		}
	}

	return nil
}

// Identity returns the configured unprivileged identity.
func (c Config) Identity() domain.Identity {
	return domain.Identity{UID: c.RunAsUID, GID: c.RunAsGID, Username: c.RunAsUser}
}

// LogPath returns the tracking server's log sink under the storage root.
func (c Config) LogPath() string {
	return c.StorageRoot + "/logs/tracking.log"
}

// HealthURL returns the tracking server's health endpoint. The server runs
// in the same container, so loopback is authoritative.
func (c Config) HealthURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d/", c.TrackingPort)
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

// setSecondsFromString parses a duration that may be given either as a
// bare integer number of seconds ("120") or as a Go duration ("2m").
func (s *configSetter) setSecondsFromString(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs > 0 {
			*dst = time.Duration(secs) * time.Second
		}
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
