// Package schema holds the configuration model shared by the CLI and the pipeline.
package schema

// Extract modes.
const (
	// ExtractModeCombined creates, copies and removes the extract container in one step.
	ExtractModeCombined = "combined"
	// ExtractModeSeparate creates the extract container in its own step.
	ExtractModeSeparate = "separate"
)

// Artifact backends.
const (
	ArtifactBackendAuto   = "auto"
	ArtifactBackendGitHub = "github"
	ArtifactBackendLocal  = "local"
)

// Defaults.
const (
	DefaultExtractDir            = "./extracted-app"
	DefaultArtifactDir           = "./artifacts"
	DefaultSeparateContainerPath = "/dist"
	DefaultCombinedContainerPath = "/app/dist"
	DefaultExtractContainerName  = "extract"
	DefaultWorkingDirectory      = "."
	DefaultBuildConfigurationArg = "BUILD_CONFIGURATION"
	DefaultVersionDescriptorName = "version.json"
	DefaultBuildDescriptorName   = "Dockerfile"
)

// Configuration is the fully resolved set of inputs for one run.
type Configuration struct {
	AppName            string `mapstructure:"app-name"`
	BuildConfiguration string `mapstructure:"build-configuration"`
	Registry           string `mapstructure:"registry"`
	WorkingDirectory   string `mapstructure:"working-directory"`

	Extract  ExtractConfig  `mapstructure:",squash"`
	Artifact ArtifactConfig `mapstructure:",squash"`
	Version  VersionConfig  `mapstructure:",squash"`

	Push    bool   `mapstructure:"push"`
	DryRun  bool   `mapstructure:"dry-run"`
	Profile bool   `mapstructure:"profile"`
	Runtime string `mapstructure:"container-runtime"`

	Logs Logs `mapstructure:",squash"`
}

// ExtractConfig controls how artifacts are copied out of the built image.
type ExtractConfig struct {
	Mode          string `mapstructure:"extract-mode"`
	ContainerPath string `mapstructure:"container-path"`
	Dir           string `mapstructure:"extract-dir"`
	ContainerName string `mapstructure:"container-name"`
}

// ArtifactConfig controls where extracted files are uploaded.
type ArtifactConfig struct {
	Backend       string `mapstructure:"artifact-backend"`
	Dir           string `mapstructure:"artifact-dir"`
	RetentionDays int    `mapstructure:"retention-days"`
}

// VersionConfig controls the version tool.
type VersionConfig struct {
	SkipToolInstall bool `mapstructure:"skip-tool-install"`
	StrictStderr    bool `mapstructure:"strict-stderr"`
}

// Logs controls log output.
type Logs struct {
	Level string `mapstructure:"log-level"`
}

// ResolvedContainerPath returns the in-image artifact directory, falling back
// to the default for the configured extract mode.
func (c *ExtractConfig) ResolvedContainerPath() string {
	if c.ContainerPath != "" {
		return c.ContainerPath
	}
	if c.Mode == ExtractModeSeparate {
		return DefaultSeparateContainerPath
	}
	return DefaultCombinedContainerPath
}
