package pipeline

import (
	"context"
	"os"
	"strconv"
	"strings"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	errUtils "github.com/cloudposse/artifactor/errors"
	"github.com/cloudposse/artifactor/pkg/artifact"
	"github.com/cloudposse/artifactor/pkg/ci"
	"github.com/cloudposse/artifactor/pkg/container"
	"github.com/cloudposse/artifactor/pkg/filematch"
	"github.com/cloudposse/artifactor/pkg/imagetag"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/nbgv"
	"github.com/cloudposse/artifactor/pkg/perf"
	"github.com/cloudposse/artifactor/pkg/schema"
)

// Step display names.
const (
	StepLoadPackageVersion     = "Loading package version"
	StepPrepareImageTag        = "Prepare docker version."
	StepBuildImage             = "Build and push docker container"
	StepCreateExtractContainer = "Create extract container"
	StepExtractBuildResult     = "Extract build result"
	StepUploadArtifacts        = "Upload artifacts"
)

// Output names.
const (
	OutputVersion      = "version"
	OutputIsPreRelease = "is-pre-release"
	OutputImageName    = "image-name"
	OutputImageTag     = "image-tag"
	OutputArtifactName = "artifact-name"
	OutputArtifactID   = "artifact-id"
)

const (
	extractDirMode = 0o755
	sourceURL      = "https://github.com/"
)

// VersionResolver installs and queries the version tool.
type VersionResolver interface {
	Install(ctx context.Context) error
	ToolsDir() (string, error)
	GetVersion(ctx context.Context, dir string) (*nbgv.Version, error)
}

// Dependencies are the collaborators a Pipeline drives.
type Dependencies struct {
	Provider ci.Provider
	Version  VersionResolver
	Runtime  container.Runtime
	Uploader artifact.Uploader
}

// Pipeline wires the configured steps to their collaborators.
type Pipeline struct {
	config  *schema.Configuration
	deps    Dependencies
	outputs ci.OutputWriter
	result  *Result
}

// New creates a Pipeline.
func New(config *schema.Configuration, deps Dependencies) *Pipeline {
	defer perf.Track(nil, "pipeline.New")()

	return &Pipeline{
		config:  config,
		deps:    deps,
		outputs: deps.Provider.OutputWriter(),
		result:  &Result{},
	}
}

// Steps returns the steps for the configured extract mode.
func (p *Pipeline) Steps() []Step {
	steps := []Step{
		{Name: StepLoadPackageVersion, Run: p.loadPackageVersion},
		{Name: StepPrepareImageTag, Run: p.prepareImageTag},
		{Name: StepBuildImage, Run: p.buildImage},
	}

	if p.config.Extract.Mode == schema.ExtractModeSeparate {
		steps = append(steps,
			Step{Name: StepCreateExtractContainer, Run: p.createExtractContainer},
			Step{Name: StepExtractBuildResult, Run: p.copyAndRemove},
		)
	} else {
		steps = append(steps, Step{Name: StepExtractBuildResult, Run: p.extractCombined})
	}

	return append(steps, Step{Name: StepUploadArtifacts, Run: p.uploadArtifacts})
}

// Run executes all steps and appends a summary to the job summary, on
// success and on failure.
func (p *Pipeline) Run(ctx context.Context) (*Result, *State, error) {
	defer perf.Track(nil, "pipeline.Pipeline.Run")()

	state := &State{}
	err := NewRunner(p.deps.Provider, p.Steps()...).Run(ctx, state, p.result)

	if summaryErr := p.outputs.WriteSummary(RenderSummary(p.config, p.result)); summaryErr != nil {
		log.Warn("Failed to write job summary", "error", summaryErr)
	}

	return p.result, state, err
}

func (p *Pipeline) workDir() string {
	if p.config.WorkingDirectory == "" {
		return schema.DefaultWorkingDirectory
	}
	return p.config.WorkingDirectory
}

func (p *Pipeline) extractDir() string {
	if p.config.Extract.Dir == "" {
		return schema.DefaultExtractDir
	}
	return p.config.Extract.Dir
}

func (p *Pipeline) containerName() string {
	if p.config.Extract.ContainerName == "" {
		return schema.DefaultExtractContainerName
	}
	return p.config.Extract.ContainerName
}

// publish writes a step output and records it for the summary.
func (p *Pipeline) publish(key, value string) error {
	p.result.Outputs = append(p.result.Outputs, Output{Key: key, Value: value})
	return p.outputs.WriteOutput(key, value)
}

func (p *Pipeline) loadPackageVersion(ctx context.Context, state *State) error {
	defer perf.Track(nil, "pipeline.loadPackageVersion")()

	if p.config.Version.SkipToolInstall {
		log.Debug("Skipping version tool install")
	} else if err := p.deps.Version.Install(ctx); err != nil {
		return err
	}

	toolsDir, err := p.deps.Version.ToolsDir()
	if err != nil {
		return err
	}
	if p.config.DryRun {
		log.Info("Dry run, not adding the tools directory to PATH", "dir", toolsDir)
	} else if err := p.deps.Provider.AddPath(toolsDir); err != nil {
		return err
	}

	descriptor, err := filematch.FindOne(p.workDir(), schema.DefaultVersionDescriptorName, errUtils.ErrVersionDescriptorNotFound)
	if err != nil {
		return err
	}
	state.VersionDescriptor = descriptor

	version, err := p.deps.Version.GetVersion(ctx, nbgv.DescriptorDir(descriptor))
	if err != nil {
		return err
	}
	state.PackageVersion = version.PackageVersion
	state.IsPreRelease = version.IsPreRelease

	if err := p.publish(OutputVersion, state.PackageVersion); err != nil {
		return err
	}
	return p.publish(OutputIsPreRelease, strconv.FormatBool(state.IsPreRelease))
}

func (p *Pipeline) prepareImageTag(_ context.Context, state *State) error {
	defer perf.Track(nil, "pipeline.prepareImageTag")()

	runContext, err := p.deps.Provider.Context()
	if err != nil {
		return err
	}

	image, err := imagetag.Compute(p.config.AppName, p.config.Registry, runContext)
	if err != nil {
		return err
	}
	state.ImageName = image.Name
	state.ImageTag = image.Tag
	state.VersionLabel = image.Label
	state.Revision = runContext.SHA
	state.Repository = runContext.Repository

	if err := p.publish(OutputImageName, state.ImageName); err != nil {
		return err
	}
	return p.publish(OutputImageTag, state.ImageTag)
}

func (p *Pipeline) buildImage(ctx context.Context, state *State) error {
	defer perf.Track(nil, "pipeline.buildImage")()

	if err := require("ImageTag", state.ImageTag); err != nil {
		return err
	}
	if err := require("PackageVersion", state.PackageVersion); err != nil {
		return err
	}

	dockerfile, err := filematch.FindOne(p.workDir(), schema.DefaultBuildDescriptorName, errUtils.ErrDockerfileNotFound)
	if err != nil {
		return err
	}
	state.Dockerfile = dockerfile

	versionTag := imagetag.VersionTag(state.ImageName, state.PackageVersion)
	config := &container.BuildConfig{
		Context:    p.workDir(),
		Dockerfile: dockerfile,
		Tags:       []string{state.ImageTag, versionTag},
		Labels:     p.imageLabels(state),
	}
	if p.config.BuildConfiguration != "" {
		config.Args = map[string]string{
			schema.DefaultBuildConfigurationArg: strings.ToLower(p.config.BuildConfiguration),
		}
	}

	if err := p.deps.Runtime.Build(ctx, config); err != nil {
		return err
	}

	if !p.config.Push {
		return nil
	}
	for _, tag := range config.Tags {
		if err := p.deps.Runtime.Push(ctx, tag); err != nil {
			return err
		}
	}
	return nil
}

// imageLabels returns the OCI annotations stamped on the built image.
func (p *Pipeline) imageLabels(state *State) map[string]string {
	labels := map[string]string{
		ocispec.AnnotationTitle:   p.config.AppName,
		ocispec.AnnotationVersion: state.PackageVersion,
	}
	if state.Revision != "" {
		labels[ocispec.AnnotationRevision] = state.Revision
	}
	if state.Repository != "" {
		labels[ocispec.AnnotationSource] = sourceURL + state.Repository
	}
	return labels
}

func (p *Pipeline) createExtractContainer(ctx context.Context, state *State) error {
	defer perf.Track(nil, "pipeline.createExtractContainer")()

	if err := require("ImageTag", state.ImageTag); err != nil {
		return err
	}

	id, err := p.deps.Runtime.Create(ctx, &container.CreateConfig{Name: p.containerName(), Image: state.ImageTag})
	if err != nil {
		return err
	}
	state.ContainerID = id
	return nil
}

func (p *Pipeline) extractCombined(ctx context.Context, state *State) error {
	defer perf.Track(nil, "pipeline.extractCombined")()

	if err := p.createExtractContainer(ctx, state); err != nil {
		return err
	}

	if p.config.DryRun {
		log.Info("Dry run, not creating the extract directory", "dir", p.extractDir())
	} else if err := os.MkdirAll(p.extractDir(), extractDirMode); err != nil {
		p.removeQuietly(ctx, state)
		return err
	}

	return p.copyAndRemove(ctx, state)
}

// copyAndRemove copies the build output out of the extract container and
// removes it. The container is also removed when the copy fails.
func (p *Pipeline) copyAndRemove(ctx context.Context, state *State) error {
	defer perf.Track(nil, "pipeline.copyAndRemove")()

	src := p.containerName() + ":" + p.config.Extract.ResolvedContainerPath()
	if err := p.deps.Runtime.Copy(ctx, src, p.extractDir()); err != nil {
		p.removeQuietly(ctx, state)
		return err
	}

	if err := p.deps.Runtime.Remove(ctx, p.containerName(), false); err != nil {
		return err
	}
	state.ContainerID = ""
	return nil
}

func (p *Pipeline) removeQuietly(ctx context.Context, state *State) {
	if err := p.deps.Runtime.Remove(ctx, p.containerName(), true); err != nil {
		log.Warn("Failed to remove extract container", "name", p.containerName(), "error", err)
		return
	}
	state.ContainerID = ""
}

func (p *Pipeline) uploadArtifacts(ctx context.Context, state *State) error {
	defer perf.Track(nil, "pipeline.uploadArtifacts")()

	if err := require("PackageVersion", state.PackageVersion); err != nil {
		return err
	}

	state.ArtifactName = artifact.Name(p.config.AppName, state.PackageVersion)

	if p.config.DryRun {
		log.Info("Dry run, skipping artifact upload", "name", state.ArtifactName, "dir", p.extractDir())
		return p.publish(OutputArtifactName, state.ArtifactName)
	}

	files, err := filematch.ListFiles(p.extractDir())
	if err != nil {
		return err
	}
	state.ExtractedFiles = files

	uploaded, err := p.deps.Uploader.Upload(ctx, state.ArtifactName, files, p.extractDir())
	if err != nil {
		return err
	}
	state.ArtifactID = uploaded.ID

	if err := p.publish(OutputArtifactName, state.ArtifactName); err != nil {
		return err
	}
	if uploaded.ID == 0 {
		return nil
	}
	return p.publish(OutputArtifactID, strconv.FormatInt(uploaded.ID, 10))
}
