package config

import (
	"slices"
	"strings"

	errUtils "github.com/cloudposse/artifactor/errors"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/schema"
)

var (
	extractModes     = []string{schema.ExtractModeCombined, schema.ExtractModeSeparate}
	artifactBackends = []string{schema.ArtifactBackendAuto, schema.ArtifactBackendGitHub, schema.ArtifactBackendLocal}
	runtimes         = []string{"docker", "podman"}
)

// Validate checks required inputs and enumerated values.
func Validate(cfg *schema.Configuration) error {
	if cfg.AppName == "" {
		return errUtils.Build(errUtils.ErrMissingInput).
			WithExplanation("Input required and not supplied: app-name").
			WithHintf("Set the app-name input, the --app-name flag or %s_APP_NAME", EnvPrefix).
			WithContext("input", "app-name").
			Err()
	}

	if !slices.Contains(extractModes, cfg.Extract.Mode) {
		return invalidValue(errUtils.ErrInvalidExtractMode, "extract-mode", cfg.Extract.Mode, extractModes)
	}

	if !slices.Contains(artifactBackends, cfg.Artifact.Backend) {
		return invalidValue(errUtils.ErrInvalidArtifactMode, "artifact-backend", cfg.Artifact.Backend, artifactBackends)
	}

	if cfg.Runtime != "" && !slices.Contains(runtimes, cfg.Runtime) {
		return invalidValue(errUtils.ErrInvalidRuntime, "container-runtime", cfg.Runtime, runtimes)
	}

	if cfg.Artifact.RetentionDays < 0 {
		return errUtils.Build(errUtils.ErrInvalidInput).
			WithExplanationf("retention-days must not be negative, got %d", cfg.Artifact.RetentionDays).
			WithContext("input", "retention-days").
			Err()
	}

	if _, err := log.ParseLogLevel(cfg.Logs.Level); err != nil {
		return errUtils.Build(err).WithContext("input", "log-level").Err()
	}

	return nil
}

func invalidValue(sentinel error, input, value string, allowed []string) error {
	return errUtils.Build(sentinel).
		WithExplanationf("%s %q is not supported", input, value).
		WithHintf("Use one of: %s", strings.Join(allowed, ", ")).
		WithContext("input", input).
		Err()
}
