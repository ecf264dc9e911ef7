package cliconfig

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations and pointers
// for booleans to make TOML friendly.
type FileConfig struct {
	StorageRoot    string `toml:"storage_root"`
	TrackingDir    string `toml:"tracking_dir"`
	TrackingPort   int    `toml:"tracking_port"`
	APIPort        int    `toml:"api_port"`
	SkipPipeline   *bool  `toml:"skip_pipeline"`
	HealthTimeout  string `toml:"health_timeout"`
	FixOwnership   *bool  `toml:"fix_ownership"`
	DropPrivileges *bool  `toml:"drop_privileges"`
	RunAsUID       int    `toml:"run_uid"`
	RunAsGID       int    `toml:"run_gid"`
	RunAsUser      string `toml:"run_user"`
	PipelineDir    string `toml:"pipeline_dir"`
	TrackingBin    string `toml:"tracking_bin"`
	APIBin         string `toml:"api_bin"`
	APIApp         string `toml:"api_app"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return "/etc/bootship/config.toml"
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("storage-root", fc.StorageRoot, &cfg.StorageRoot)
	s.setString("tracking-dir", fc.TrackingDir, &cfg.TrackingDir)
	s.setString("pipeline-dir", fc.PipelineDir, &cfg.PipelineDir)
	s.setString("run-user", fc.RunAsUser, &cfg.RunAsUser)
	s.setString("tracking-bin", fc.TrackingBin, &cfg.TrackingBin)
	s.setString("api-bin", fc.APIBin, &cfg.APIBin)
	s.setString("api-app", fc.APIApp, &cfg.APIApp)

	s.setInt("tracking-port", fc.TrackingPort, &cfg.TrackingPort)
	s.setInt("api-port", fc.APIPort, &cfg.APIPort)
	s.setInt("run-uid", fc.RunAsUID, &cfg.RunAsUID)
	s.setInt("run-gid", fc.RunAsGID, &cfg.RunAsGID)

	if err := s.setSecondsFromString("health-timeout", fc.HealthTimeout, &cfg.HealthTimeout); err != nil {
		return err
	}

	s.setBool("skip-pipeline", fc.SkipPipeline, &cfg.SkipPipeline)
	s.setBool("fix-ownership", fc.FixOwnership, &cfg.FixOwnership)
	s.setBool("drop-privileges", fc.DropPrivileges, &cfg.DropPrivileges)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
