package errors

import (
	"github.com/cockroachdb/errors"
)

// Configuration errors.
var (
	ErrMissingInput        = errors.New("required input is missing")
	ErrInvalidInput        = errors.New("invalid input value")
	ErrInvalidExtractMode  = errors.New("invalid extract mode")
	ErrInvalidArtifactMode = errors.New("invalid artifact backend")
	ErrInvalidLogLevel     = errors.New("invalid log level")
	ErrInvalidRuntime      = errors.New("invalid container runtime")
	ErrConfigFile          = errors.New("failed to read config file")
)

// Pipeline errors.
var (
	ErrStepFailed    = errors.New("pipeline step failed")
	ErrEmptyPipeline = errors.New("pipeline has no steps")
	ErrStateMissing  = errors.New("pipeline state is missing a value produced by an earlier step")
)

// File discovery errors.
var (
	ErrVersionDescriptorNotFound = errors.New("version.json not found")
	ErrDockerfileNotFound        = errors.New("Dockerfile not found")
	ErrFileNotFound              = errors.New("file not found")
)

// Version tool errors.
var (
	ErrToolInstallFailed      = errors.New("failed to install version tool")
	ErrVersionToolFailed      = errors.New("version tool failed")
	ErrVersionToolStderr      = errors.New("version tool wrote to stderr")
	ErrVersionOutputMalformed = errors.New("version tool returned malformed JSON")
	ErrVersionFieldMissing    = errors.New("version tool output is missing NBGV_NuGetPackageVersion")
)

// Ref and event errors.
var (
	ErrEventPayloadRead    = errors.New("failed to read event payload")
	ErrEventPayloadInvalid = errors.New("event payload is invalid")
	ErrPullRequestNumber   = errors.New("event payload has no pull request number")
)

// Process and container runtime errors.
var (
	ErrCommandFailed             = errors.New("command failed")
	ErrRuntimeNotAvailable       = errors.New("container runtime not available")
	ErrContainerRuntimeOperation = errors.New("container runtime operation failed")
)

// CI provider errors.
var (
	ErrOpenFile  = errors.New("failed to open file")
	ErrWriteFile = errors.New("failed to write file")
)

// Artifact upload errors.
var (
	ErrNoArtifactFiles       = errors.New("no files found to upload")
	ErrArtifactArchive       = errors.New("failed to create artifact archive")
	ErrArtifactUpload        = errors.New("artifact upload failed")
	ErrArtifactCreate        = errors.New("results service rejected artifact creation")
	ErrArtifactFinalize      = errors.New("results service rejected artifact finalization")
	ErrRuntimeTokenMissing   = errors.New("ACTIONS_RUNTIME_TOKEN is not set")
	ErrRuntimeTokenInvalid   = errors.New("ACTIONS_RUNTIME_TOKEN is invalid")
	ErrResultsURLMissing     = errors.New("ACTIONS_RESULTS_URL is not set")
	ErrHTTPRequestFailed     = errors.New("HTTP request failed")
	ErrArtifactNameInvalid   = errors.New("artifact name is invalid")
	ErrArtifactBackendNeedCI = errors.New("github artifact backend requires GitHub Actions")
)
