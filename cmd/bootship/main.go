package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/mtp-labs/bootship"
	execadapter "github.com/mtp-labs/bootship/internal/adapters/exec"
	"github.com/mtp-labs/bootship/internal/cliconfig"
	"github.com/mtp-labs/bootship/internal/domain"
	"github.com/mtp-labs/bootship/pkg/log"
)

// Exit codes. Success (0) is only reachable through process replacement
// inheriting the api server's own exit, or run-pipeline completing.
const (
	exitFailure        = 1
	exitUnknownCommand = 2
)

const longHelp = `bootship is the container entrypoint for the sentiment service.

It runs the preparatory pipeline (ingest, preprocess, train) exactly once
per volume, starts the experiment tracking server, waits for it to answer
on its health endpoint, and then replaces itself with the api server.

Verbs:
  start         full startup sequence (default)
  run-pipeline  run only the pipeline stages, then exit
  shell         replace the process with an interactive shell
`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// knownVerbs are the recognized invocation verbs. Anything else exits with
// the distinct unknown-command code before cobra runs.
var knownVerbs = map[string]bool{
	"start":        true,
	"run-pipeline": true,
	"shell":        true,
	"help":         true,
	"completion":   true,
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := log.NewZerologAdapter()

	// No verb means start: the container's normal invocation.
	if len(args) == 0 {
		args = []string{"start"}
	}

	if !strings.HasPrefix(args[0], "-") && !knownVerbs[args[0]] {
		logger.Error("unknown command", log.String("verb", args[0]))
		return exitUnknownCommand
	}

	root := newRootCommand(logger)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		logger.Error("bootship", log.Err(err))
		return exitFailure
	}
	return 0
}

func newRootCommand(logger log.Logger) *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "bootship",
		Short:         "Startup orchestrator for the sentiment-service container",
		Long:          longHelp,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: /etc/bootship/config.toml)")
	pf.StringVar(&cfg.StorageRoot, "storage-root", cfg.StorageRoot, "persisted storage root")
	pf.StringVar(&cfg.TrackingDir, "tracking-dir", cfg.TrackingDir, "tracking server data directory (defaults under storage root)")
	pf.IntVar(&cfg.TrackingPort, "tracking-port", cfg.TrackingPort, "tracking server port")
	pf.IntVar(&cfg.APIPort, "api-port", cfg.APIPort, "api server port")
	pf.BoolVar(&cfg.SkipPipeline, "skip-pipeline", cfg.SkipPipeline, "skip the pipeline stages entirely")
	pf.DurationVar(&cfg.HealthTimeout, "health-timeout", cfg.HealthTimeout, "readiness wait bound for the tracking server")
	pf.BoolVar(&cfg.FixOwnership, "fix-ownership", cfg.FixOwnership, "chown tracking data to the unprivileged identity (best effort)")
	pf.BoolVar(&cfg.DropPrivileges, "drop-privileges", cfg.DropPrivileges, "run the api server as the unprivileged identity")
	pf.IntVar(&cfg.RunAsUID, "run-uid", cfg.RunAsUID, "unprivileged uid")
	pf.IntVar(&cfg.RunAsGID, "run-gid", cfg.RunAsGID, "unprivileged gid")
	pf.StringVar(&cfg.RunAsUser, "run-user", cfg.RunAsUser, "unprivileged username")
	pf.StringVar(&cfg.PipelineDir, "pipeline-dir", cfg.PipelineDir, "directory holding the stage executables")

	start := &cobra.Command{
		Use:   "start",
		Short: "Run the full startup sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}
			logConfig(logger, cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return bootship.New(cfg, logger).Run(ctx)
		},
	}

	runPipeline := &cobra.Command{
		Use:   "run-pipeline",
		Short: "Run only the pipeline stages, then exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			outcome, err := bootship.New(cfg, logger).RunPipelineOnly(ctx)
			if err != nil {
				return err
			}
			if outcome.Failed() {
				return fmt.Errorf("%w: stage %s exited %d",
					domain.ErrStageFailed, outcome.FailedStage, outcome.ExitCode)
			}
			logger.Info("pipeline finished", log.String("outcome", outcome.String()))
			return nil
		},
	}

	shell := &cobra.Command{
		Use:   "shell",
		Short: "Replace the process with an interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bypasses the whole state machine.
			return execadapter.NewReplacer().Exec("/bin/sh", nil)
		},
	}

	root.AddCommand(start, runPipeline, shell)
	return root
}

// resolveConfig applies the file, env, and flag layers in precedence order
// and validates the result.
func resolveConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	path := cfgPath
	if path == "" {
		path = cliconfig.DefaultConfigPath()
	}
	if path != "" && cliconfig.FileExists(path) {
		fc, err := cliconfig.LoadFileConfig(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}

	return cfg.Validate()
}

func logConfig(logger log.Logger, cfg cliconfig.Config) {
	logger.Info("configuration",
		log.String("storage_root", cfg.StorageRoot),
		log.String("tracking_dir", cfg.TrackingDir),
		log.Int("tracking_port", cfg.TrackingPort),
		log.Int("api_port", cfg.APIPort),
		log.Bool("skip_pipeline", cfg.SkipPipeline),
		log.Duration("health_timeout", cfg.HealthTimeout),
		log.Bool("fix_ownership", cfg.FixOwnership),
		log.Bool("drop_privileges", cfg.DropPrivileges),
	)
}
