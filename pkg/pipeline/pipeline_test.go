package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	errUtils "github.com/cloudposse/artifactor/errors"
	"github.com/cloudposse/artifactor/pkg/artifact"
	"github.com/cloudposse/artifactor/pkg/ci"
	"github.com/cloudposse/artifactor/pkg/container"
	"github.com/cloudposse/artifactor/pkg/nbgv"
	"github.com/cloudposse/artifactor/pkg/schema"
)

const toolsDir = "/home/runner/.dotnet/tools"

// fakeVersion is a VersionResolver returning a fixed version.
type fakeVersion struct {
	version    string
	err        error
	installErr error
	installed  bool
	queriedDir string
}

func (f *fakeVersion) Install(context.Context) error {
	f.installed = true
	return f.installErr
}

func (f *fakeVersion) ToolsDir() (string, error) {
	return toolsDir, nil
}

func (f *fakeVersion) GetVersion(_ context.Context, dir string) (*nbgv.Version, error) {
	f.queriedDir = dir
	if f.err != nil {
		return nil, f.err
	}
	return nbgv.NewVersion(f.version), nil
}

type fixture struct {
	root     string
	config   *schema.Configuration
	out      *bytes.Buffer
	provider *ci.MockProvider
	runtime  *container.MockRuntime
	uploader *artifact.MockUploader
	version  *fakeVersion
}

func newFixture(t *testing.T, files ...string) *fixture {
	t.Helper()
	root := t.TempDir()
	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	}

	ctrl := gomock.NewController(t)
	f := &fixture{
		root: root,
		config: &schema.Configuration{
			AppName:          "svc",
			WorkingDirectory: root,
			Extract:          schema.ExtractConfig{Dir: filepath.Join(root, "extracted-app")},
		},
		out:      &bytes.Buffer{},
		provider: ci.NewMockProvider(ctrl),
		runtime:  container.NewMockRuntime(ctrl),
		uploader: artifact.NewMockUploader(ctrl),
		version:  &fakeVersion{version: "2.0.0-ci"},
	}
	f.provider.EXPECT().OutputWriter().Return(ci.NewStreamOutputWriter(f.out)).AnyTimes()
	return f
}

func (f *fixture) pipeline() *Pipeline {
	return New(f.config, Dependencies{
		Provider: f.provider,
		Version:  f.version,
		Runtime:  f.runtime,
		Uploader: f.uploader,
	})
}

func (f *fixture) extractDir() string {
	return f.config.Extract.Dir
}

func TestPipeline_EndToEnd(t *testing.T) {
	f := newFixture(t, "version.json", "src/Dockerfile")
	extracted := filepath.Join(f.extractDir(), "dist", "app.dll")

	f.provider.EXPECT().AddPath(toolsDir).Return(nil)
	f.provider.EXPECT().Context().Return(&ci.Context{Ref: "refs/heads/main"}, nil)

	gomock.InOrder(
		f.runtime.EXPECT().Build(gomock.Any(), &container.BuildConfig{
			Context:    f.root,
			Dockerfile: filepath.Join(f.root, "src", "Dockerfile"),
			Tags:       []string{"svc:main", "svc:2.0.0-ci"},
			Labels: map[string]string{
				"org.opencontainers.image.title":   "svc",
				"org.opencontainers.image.version": "2.0.0-ci",
			},
		}).Return(nil),
		f.runtime.EXPECT().Create(gomock.Any(), &container.CreateConfig{Name: "extract", Image: "svc:main"}).Return("c0ffee", nil),
		f.runtime.EXPECT().Copy(gomock.Any(), "extract:/app/dist", f.extractDir()).
			DoAndReturn(func(context.Context, string, string) error {
				require.NoError(t, os.MkdirAll(filepath.Dir(extracted), 0o755))
				return os.WriteFile(extracted, []byte("binary"), 0o600)
			}),
		f.runtime.EXPECT().Remove(gomock.Any(), "extract", false).Return(nil),
		f.uploader.EXPECT().Upload(gomock.Any(), "svc-2.0.0-ci", []string{extracted}, f.extractDir()).
			Return(&artifact.UploadResult{Name: "svc-2.0.0-ci", ID: 7}, nil),
	)

	result, state, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Len(t, result.Steps, 5)
	assert.True(t, f.version.installed)
	assert.Equal(t, filepath.Join(f.root)+string(filepath.Separator), f.version.queriedDir)

	assert.Equal(t, "2.0.0-ci", state.PackageVersion)
	assert.True(t, state.IsPreRelease)
	assert.Equal(t, "svc:main", state.ImageTag)
	assert.Equal(t, "svc-2.0.0-ci", state.ArtifactName)
	assert.Empty(t, state.ContainerID)

	assert.Equal(t, strings.Join([]string{
		"version=2.0.0-ci",
		"is-pre-release=true",
		"image-name=svc",
		"image-tag=svc:main",
		"artifact-name=svc-2.0.0-ci",
		"artifact-id=7",
		"",
	}, "\n"), f.out.String())

	tag, ok := result.Output(OutputImageTag)
	assert.True(t, ok)
	assert.Equal(t, "svc:main", tag)
}

func TestPipeline_BuildFailureStopsRun(t *testing.T) {
	f := newFixture(t, "version.json", "Dockerfile")
	f.config.Version.SkipToolInstall = true

	f.provider.EXPECT().AddPath(toolsDir).Return(nil)
	f.provider.EXPECT().Context().Return(&ci.Context{Ref: "refs/tags/v2.0.0"}, nil)
	f.runtime.EXPECT().Build(gomock.Any(), gomock.Any()).Return(errUtils.Build(errUtils.ErrContainerRuntimeOperation).Err())

	var failure string
	f.provider.EXPECT().Fail(gomock.Any()).Do(func(message string) { failure = message })

	result, _, err := f.pipeline().Run(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, errUtils.ErrStepFailed)
	assert.ErrorIs(t, err, errUtils.ErrContainerRuntimeOperation)
	assert.Contains(t, err.Error(), `Step "Build and push docker container" failed. Error: `)
	assert.Equal(t, err.Error(), failure)
	assert.False(t, f.version.installed)

	assert.False(t, result.Success)
	require.Len(t, result.Steps, 3)
	assert.False(t, result.Steps[2].Success)
	// No extract or upload expectations: gomock fails the test if they run.
}

func TestPipeline_MissingVersionDescriptor(t *testing.T) {
	f := newFixture(t, "Dockerfile")

	f.provider.EXPECT().AddPath(toolsDir).Return(nil)
	f.provider.EXPECT().Fail(gomock.Any())

	_, _, err := f.pipeline().Run(context.Background())
	assert.ErrorIs(t, err, errUtils.ErrVersionDescriptorNotFound)
	assert.Contains(t, err.Error(), `Step "Loading package version" failed.`)
	assert.Empty(t, f.version.queriedDir)
}

func TestPipeline_MissingDockerfile(t *testing.T) {
	f := newFixture(t, "version.json")

	f.provider.EXPECT().AddPath(toolsDir).Return(nil)
	f.provider.EXPECT().Context().Return(&ci.Context{}, nil)
	f.provider.EXPECT().Fail(gomock.Any())

	_, state, err := f.pipeline().Run(context.Background())
	assert.ErrorIs(t, err, errUtils.ErrDockerfileNotFound)
	assert.Equal(t, "svc:edge", state.ImageTag)
}

func TestPipeline_SeparateExtractMode(t *testing.T) {
	f := newFixture(t, "version.json", "Dockerfile")
	f.config.Extract.Mode = schema.ExtractModeSeparate
	f.config.BuildConfiguration = "Release"
	f.config.Registry = "ghcr.io/acme"
	f.config.AppName = "Svc"
	f.config.Push = true
	f.version.version = "1.2.3"

	f.provider.EXPECT().AddPath(toolsDir).Return(nil)
	f.provider.EXPECT().Context().Return(&ci.Context{
		Ref:        "refs/heads/feature/login",
		SHA:        "4f2a9c1",
		Repository: "acme/svc",
	}, nil)

	gomock.InOrder(
		f.runtime.EXPECT().Build(gomock.Any(), &container.BuildConfig{
			Context:    f.root,
			Dockerfile: filepath.Join(f.root, "Dockerfile"),
			Tags:       []string{"ghcr.io/acme/svc:feature-login", "ghcr.io/acme/svc:1.2.3"},
			Args:       map[string]string{"BUILD_CONFIGURATION": "release"},
			Labels: map[string]string{
				"org.opencontainers.image.title":    "Svc",
				"org.opencontainers.image.version":  "1.2.3",
				"org.opencontainers.image.revision": "4f2a9c1",
				"org.opencontainers.image.source":   "https://github.com/acme/svc",
			},
		}).Return(nil),
		f.runtime.EXPECT().Push(gomock.Any(), "ghcr.io/acme/svc:feature-login").Return(nil),
		f.runtime.EXPECT().Push(gomock.Any(), "ghcr.io/acme/svc:1.2.3").Return(nil),
		f.runtime.EXPECT().Create(gomock.Any(), gomock.Any()).Return("c0ffee", nil),
		f.runtime.EXPECT().Copy(gomock.Any(), "extract:/dist", f.extractDir()).
			DoAndReturn(func(context.Context, string, string) error {
				require.NoError(t, os.MkdirAll(f.extractDir(), 0o755))
				return os.WriteFile(filepath.Join(f.extractDir(), "a.txt"), []byte("a"), 0o600)
			}),
		f.runtime.EXPECT().Remove(gomock.Any(), "extract", false).Return(nil),
		f.uploader.EXPECT().Upload(gomock.Any(), "Svc-1.2.3", gomock.Len(1), f.extractDir()).
			Return(&artifact.UploadResult{Name: "Svc-1.2.3"}, nil),
	)

	result, _, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(result.Steps))
	for _, s := range result.Steps {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		StepLoadPackageVersion,
		StepPrepareImageTag,
		StepBuildImage,
		StepCreateExtractContainer,
		StepExtractBuildResult,
		StepUploadArtifacts,
	}, names)

	assert.Contains(t, f.out.String(), "is-pre-release=false\n")
	assert.NotContains(t, f.out.String(), "artifact-id=")
}

func TestPipeline_CopyFailureRemovesContainer(t *testing.T) {
	f := newFixture(t, "version.json", "Dockerfile")

	f.provider.EXPECT().AddPath(toolsDir).Return(nil)
	f.provider.EXPECT().Context().Return(&ci.Context{Ref: "refs/heads/main"}, nil)
	f.provider.EXPECT().Fail(gomock.Any())

	gomock.InOrder(
		f.runtime.EXPECT().Build(gomock.Any(), gomock.Any()).Return(nil),
		f.runtime.EXPECT().Create(gomock.Any(), gomock.Any()).Return("c0ffee", nil),
		f.runtime.EXPECT().Copy(gomock.Any(), gomock.Any(), gomock.Any()).Return(errUtils.ErrContainerRuntimeOperation),
		f.runtime.EXPECT().Remove(gomock.Any(), "extract", true).Return(nil),
	)

	_, state, err := f.pipeline().Run(context.Background())
	assert.ErrorIs(t, err, errUtils.ErrContainerRuntimeOperation)
	assert.Contains(t, err.Error(), `Step "Extract build result" failed.`)
	assert.Empty(t, state.ContainerID)
}

func TestPipeline_DryRunSkipsSideEffects(t *testing.T) {
	f := newFixture(t, "version.json", "Dockerfile")
	f.config.DryRun = true

	f.provider.EXPECT().AddPath(gomock.Any()).Times(0)
	f.provider.EXPECT().Context().Return(&ci.Context{Ref: "refs/heads/main"}, nil)
	f.runtime.EXPECT().Build(gomock.Any(), gomock.Any()).Return(nil)
	f.runtime.EXPECT().Create(gomock.Any(), gomock.Any()).Return("", nil)
	f.runtime.EXPECT().Copy(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.runtime.EXPECT().Remove(gomock.Any(), gomock.Any(), false).Return(nil)

	result, _, err := f.pipeline().Run(context.Background())
	require.NoError(t, err)
	name, ok := result.Output(OutputArtifactName)
	assert.True(t, ok)
	assert.Equal(t, "svc-2.0.0-ci", name)
	assert.NoDirExists(t, f.extractDir())
}

func TestPipeline_CancelledContext(t *testing.T) {
	f := newFixture(t, "version.json", "Dockerfile")
	f.provider.EXPECT().Fail(gomock.Any())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := f.pipeline().Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.version.installed)
}
