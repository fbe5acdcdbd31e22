package container

import (
	"context"
	"strings"

	errUtils "github.com/cloudposse/artifactor/errors"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/perf"
	"github.com/cloudposse/artifactor/pkg/process"
)

// DetectRuntime auto-detects the available container runtime.
// Priority order:
// 1. preferred (the resolved container-runtime option)
// 2. Docker (if available and running)
// 3. Podman (if available and running)
// Returns error if no runtime is available.
func DetectRuntime(ctx context.Context, executor process.Executor, preferred string) (*CLIRuntime, error) {
	defer perf.Track(nil, "container.DetectRuntime")()

	if preferred != "" {
		log.Debug("Using configured container runtime", "runtime", preferred)

		runtime, err := NewRuntime(Type(strings.ToLower(preferred)), executor)
		if err != nil {
			return nil, err
		}
		if !isAvailable(ctx, executor, runtime) {
			return nil, errUtils.Build(errUtils.ErrRuntimeNotAvailable).
				WithExplanationf("%s is not available or not running", runtime.Type()).
				Err()
		}
		return runtime, nil
	}

	for _, kind := range []Type{TypeDocker, TypePodman} {
		runtime, _ := NewRuntime(kind, executor)
		if isAvailable(ctx, executor, runtime) {
			log.Debug("Auto-detected container runtime", "runtime", kind)
			return runtime, nil
		}
	}

	return nil, errUtils.Build(errUtils.ErrRuntimeNotAvailable).
		WithExplanation("neither docker nor podman is available").
		WithHint("Install docker or podman, or set the container-runtime option").
		Err()
}

// isAvailable checks if a container runtime is available and running.
func isAvailable(ctx context.Context, executor process.Executor, runtime Runtime) bool {
	defer perf.Track(nil, "container.isAvailable")()

	if _, err := executor.LookPath(string(runtime.Type())); err != nil {
		log.Debug("Runtime binary not found in PATH", "runtime", runtime.Type())
		return false
	}

	if err := runtime.Info(ctx); err != nil {
		log.Debug("Runtime is not responsive", "runtime", runtime.Type(), "error", err)
		return false
	}

	return true
}
