package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (BOOTSHIP_*). It respects flags that have been explicitly set (changed
// map). Returns an error if any variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("storage-root", os.Getenv("BOOTSHIP_STORAGE_ROOT"), &cfg.StorageRoot)
	s.setString("tracking-dir", os.Getenv("BOOTSHIP_TRACKING_DIR"), &cfg.TrackingDir)
	s.setString("pipeline-dir", os.Getenv("BOOTSHIP_PIPELINE_DIR"), &cfg.PipelineDir)
	s.setString("run-user", os.Getenv("BOOTSHIP_RUN_USER"), &cfg.RunAsUser)
	s.setString("tracking-bin", os.Getenv("BOOTSHIP_TRACKING_BIN"), &cfg.TrackingBin)
	s.setString("api-bin", os.Getenv("BOOTSHIP_API_BIN"), &cfg.APIBin)
	s.setString("api-app", os.Getenv("BOOTSHIP_API_APP"), &cfg.APIApp)

	if err := s.setIntFromString("tracking-port", os.Getenv("BOOTSHIP_TRACKING_PORT"), &cfg.TrackingPort); err != nil {
		return err
	}
	if err := s.setIntFromString("api-port", os.Getenv("BOOTSHIP_API_PORT"), &cfg.APIPort); err != nil {
		return err
	}
	if err := s.setIntFromString("run-uid", os.Getenv("BOOTSHIP_RUN_UID"), &cfg.RunAsUID); err != nil {
		return err
	}
	if err := s.setIntFromString("run-gid", os.Getenv("BOOTSHIP_RUN_GID"), &cfg.RunAsGID); err != nil {
		return err
	}

	if err := s.setSecondsFromString("health-timeout", os.Getenv("BOOTSHIP_HEALTH_TIMEOUT"), &cfg.HealthTimeout); err != nil {
		return err
	}

	s.setBoolFromString("skip-pipeline", os.Getenv("BOOTSHIP_SKIP_PIPELINE"), &cfg.SkipPipeline)
	s.setBoolFromString("fix-ownership", os.Getenv("BOOTSHIP_FIX_OWNERSHIP"), &cfg.FixOwnership)
	s.setBoolFromString("drop-privileges", os.Getenv("BOOTSHIP_DROP_PRIVILEGES"), &cfg.DropPrivileges)

	return nil
}
