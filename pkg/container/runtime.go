// Package container drives a container engine CLI (docker or podman) to build
// images and copy files out of them.
package container

import "context"

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -source=runtime.go -destination=mock_runtime.go -package=container

// Type identifies a container engine.
type Type string

const (
	TypeDocker Type = "docker"
	TypePodman Type = "podman"
)

// BuildConfig describes an image build.
type BuildConfig struct {
	// Context is the build context directory.
	Context string

	// Dockerfile is the path of the Dockerfile.
	Dockerfile string

	// Tags are applied in order; the first one is the primary reference.
	Tags []string

	// Args are passed as --build-arg KEY=VALUE, sorted by key.
	Args map[string]string

	// Labels are passed as --label KEY=VALUE, sorted by key.
	Labels map[string]string
}

// CreateConfig describes a stopped container created from an image.
type CreateConfig struct {
	Name  string
	Image string
}

// Runtime is the set of engine operations the pipeline uses.
type Runtime interface {
	// Type returns the engine kind.
	Type() Type

	// Info checks that the engine binary responds.
	Info(ctx context.Context) error

	// Build builds an image.
	Build(ctx context.Context, config *BuildConfig) error

	// Push pushes an image reference to its registry.
	Push(ctx context.Context, ref string) error

	// Create creates a container without starting it and returns its ID.
	Create(ctx context.Context, config *CreateConfig) (string, error)

	// Copy copies src to dst. Either side may be "<container>:<path>".
	Copy(ctx context.Context, src, dst string) error

	// Remove removes a container.
	Remove(ctx context.Context, containerID string, force bool) error
}
