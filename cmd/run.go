package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudposse/artifactor/pkg/artifact"
	"github.com/cloudposse/artifactor/pkg/ci"
	"github.com/cloudposse/artifactor/pkg/ci/providers/generic"
	_ "github.com/cloudposse/artifactor/pkg/ci/providers/github"
	"github.com/cloudposse/artifactor/pkg/config"
	"github.com/cloudposse/artifactor/pkg/container"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/nbgv"
	"github.com/cloudposse/artifactor/pkg/perf"
	"github.com/cloudposse/artifactor/pkg/pipeline"
	"github.com/cloudposse/artifactor/pkg/process"
	"github.com/cloudposse/artifactor/pkg/schema"
)

// Swapped in tests.
var (
	resolveProvider = generic.Resolve
	newExecutor     = func(dryRun bool) process.Executor { return process.NewExecutor(dryRun) }
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve the version, build the image and publish its artifacts",
	Example: `artifactor run --app-name my-service
artifactor run --app-name my-service --registry ghcr.io/acme --push
artifactor run --app-name my-service --extract-mode separate --artifact-backend local --dry-run`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	cobra.CheckErr(config.RegisterFlags(runCmd.Flags()))
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	defer perf.Track(nil, "cmd.runPipeline")()

	// Replaced once the configured working directory is known.
	provider := resolveProvider(schema.DefaultWorkingDirectory)
	fail := func(err error) error {
		provider.Fail(err.Error())
		return err
	}

	handler, err := config.New()
	if err != nil {
		return fail(err)
	}
	if err := handler.BindFlags(cmd.Flags()); err != nil {
		return fail(err)
	}
	cfg, err := handler.Load(configFile)
	if err != nil {
		return fail(err)
	}

	if err := setupLogger(cfg.Logs.Level); err != nil {
		return fail(err)
	}
	provider = resolveProvider(cfg.WorkingDirectory)

	perf.Enable(cfg.Profile)
	if cfg.Profile {
		defer logTimings()
	}

	log.Debug("Resolved configuration", "provider", provider.Name(), "app", cfg.AppName, "mode", cfg.Extract.Mode, "backend", cfg.Artifact.Backend, "dry-run", cfg.DryRun)

	deps, err := buildDependencies(cmd.Context(), cfg, provider)
	if err != nil {
		return fail(err)
	}

	result, _, err := pipeline.New(cfg, *deps).Run(cmd.Context())
	if err != nil {
		// The runner already reported the failing step to the provider.
		return err
	}

	name, _ := result.Output(pipeline.OutputArtifactName)
	log.Info("Pipeline finished", "artifact", name, "steps", len(result.Steps))
	return nil
}

func buildDependencies(ctx context.Context, cfg *schema.Configuration, provider ci.Provider) (*pipeline.Dependencies, error) {
	executor := newExecutor(cfg.DryRun)

	runtime, err := container.DetectRuntime(ctx, executor, cfg.Runtime)
	if err != nil {
		if !cfg.DryRun {
			return nil, err
		}
		log.Warn("No container runtime detected, assuming docker for the dry run", "error", err)
		if runtime, err = container.NewRuntime(container.TypeDocker, executor); err != nil {
			return nil, err
		}
	}

	uploader, err := artifact.NewUploader(&cfg.Artifact, os.Getenv)
	if err != nil {
		return nil, err
	}

	versionTool := nbgv.New(executor,
		nbgv.WithStrictStderr(cfg.Version.StrictStderr),
		nbgv.WithDryRun(cfg.DryRun),
	)

	return &pipeline.Dependencies{
		Provider: provider,
		Version:  versionTool,
		Runtime:  runtime,
		Uploader: uploader,
	}, nil
}

func setupLogger(level string) error {
	logLevel, err := log.ParseLogLevel(level)
	if err != nil {
		return err
	}
	log.Default().SetLevel(logLevel.CharmLevel())
	return nil
}

func logTimings() {
	for _, stat := range perf.Snapshot() {
		log.Info("Timing",
			"name", stat.Name,
			"count", stat.Count,
			"p50", stat.P50,
			"p95", stat.P95,
			"max", stat.Max,
			"total", stat.Total,
		)
	}
}
