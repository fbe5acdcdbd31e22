package container

import (
	"context"
	"fmt"
	"sort"
	"strings"

	errUtils "github.com/cloudposse/artifactor/errors"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/perf"
	"github.com/cloudposse/artifactor/pkg/process"
)

// CLIRuntime implements Runtime by invoking the engine binary. Docker and
// Podman accept the same arguments for every operation used here.
type CLIRuntime struct {
	kind     Type
	executor process.Executor
}

// NewDockerRuntime creates a Docker runtime.
func NewDockerRuntime(executor process.Executor) *CLIRuntime {
	return &CLIRuntime{kind: TypeDocker, executor: executor}
}

// NewPodmanRuntime creates a Podman runtime.
func NewPodmanRuntime(executor process.Executor) *CLIRuntime {
	return &CLIRuntime{kind: TypePodman, executor: executor}
}

// NewRuntime creates a runtime for kind.
func NewRuntime(kind Type, executor process.Executor) (*CLIRuntime, error) {
	switch kind {
	case TypeDocker:
		return NewDockerRuntime(executor), nil
	case TypePodman:
		return NewPodmanRuntime(executor), nil
	default:
		return nil, errUtils.Build(errUtils.ErrRuntimeNotAvailable).
			WithExplanationf("unknown runtime type '%s'", kind).
			WithHint("Supported runtimes are docker and podman").
			Err()
	}
}

// Type implements Runtime.
func (r *CLIRuntime) Type() Type {
	return r.kind
}

// Info implements Runtime.
func (r *CLIRuntime) Info(ctx context.Context) error {
	defer perf.Track(nil, "container.CLIRuntime.Info")()

	_, err := r.run(ctx, "info", false, "info")
	return err
}

// Build implements Runtime.
func (r *CLIRuntime) Build(ctx context.Context, config *BuildConfig) error {
	defer perf.Track(nil, "container.CLIRuntime.Build")()

	if _, err := r.run(ctx, "build", true, buildArgs(config)...); err != nil {
		return err
	}

	log.Debug("Built image", "runtime", r.kind, "tags", config.Tags)
	return nil
}

// Push implements Runtime.
func (r *CLIRuntime) Push(ctx context.Context, ref string) error {
	defer perf.Track(nil, "container.CLIRuntime.Push")()

	if _, err := r.run(ctx, "push", true, "push", ref); err != nil {
		return err
	}

	log.Debug("Pushed image", "runtime", r.kind, "ref", ref)
	return nil
}

// Create implements Runtime.
func (r *CLIRuntime) Create(ctx context.Context, config *CreateConfig) (string, error) {
	defer perf.Track(nil, "container.CLIRuntime.Create")()

	args := []string{"create"}
	if config.Name != "" {
		args = append(args, "--name", config.Name)
	}
	args = append(args, config.Image)

	res, err := r.run(ctx, "create", false, args...)
	if err != nil {
		return "", err
	}

	containerID := strings.TrimSpace(res.Stdout)
	log.Debug("Created container", "runtime", r.kind, "id", containerID, "name", config.Name)
	return containerID, nil
}

// Copy implements Runtime.
func (r *CLIRuntime) Copy(ctx context.Context, src, dst string) error {
	defer perf.Track(nil, "container.CLIRuntime.Copy")()

	if _, err := r.run(ctx, "cp", false, "cp", src, dst); err != nil {
		return err
	}

	log.Debug("Copied files", "runtime", r.kind, "from", src, "to", dst)
	return nil
}

// Remove implements Runtime.
func (r *CLIRuntime) Remove(ctx context.Context, containerID string, force bool) error {
	defer perf.Track(nil, "container.CLIRuntime.Remove")()

	args := []string{"rm"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, containerID)

	if _, err := r.run(ctx, "rm", false, args...); err != nil {
		return err
	}

	log.Debug("Removed container", "runtime", r.kind, "id", containerID)
	return nil
}

func (r *CLIRuntime) run(ctx context.Context, operation string, stream bool, args ...string) (*process.Result, error) {
	res, err := r.executor.Run(ctx, &process.Command{
		Name:   string(r.kind),
		Args:   args,
		Stream: stream,
	})
	if err != nil {
		return res, errUtils.Build(errUtils.ErrContainerRuntimeOperation).
			WithCause(err).
			WithContext("runtime", string(r.kind)).
			WithContext("operation", operation).
			Err()
	}
	return res, nil
}

// buildArgs renders "build <context> -f <dockerfile> -t <tag>... --build-arg K=V... --label K=V...".
func buildArgs(config *BuildConfig) []string {
	buildContext := config.Context
	if buildContext == "" {
		buildContext = "."
	}

	args := []string{"build", buildContext, "-f", config.Dockerfile}
	for _, tag := range config.Tags {
		args = append(args, "-t", tag)
	}

	args = appendPairs(args, "--build-arg", config.Args)
	return appendPairs(args, "--label", config.Labels)
}

// appendPairs appends "flag K=V" for every entry of pairs, sorted by key.
func appendPairs(args []string, flag string, pairs map[string]string) []string {
	keys := make([]string, 0, len(pairs))
	for key := range pairs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		args = append(args, flag, fmt.Sprintf("%s=%s", key, pairs[key]))
	}
	return args
}
