// Package nbgv resolves package versions with the Nerdbank.GitVersioning CLI.
package nbgv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	jsoniter "github.com/json-iterator/go"

	errUtils "github.com/cloudposse/artifactor/errors"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/perf"
	"github.com/cloudposse/artifactor/pkg/process"
)

const (
	// ToolName is the nbgv executable and dotnet tool package name.
	ToolName = "nbgv"

	// PackageVersionVar is the CloudBuildAllVars key holding the NuGet package version.
	PackageVersionVar = "NBGV_NuGetPackageVersion"

	// DryRunVersion is reported when commands are not executed.
	DryRunVersion = "0.0.0-dry-run"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Version is a resolved package version.
type Version struct {
	// PackageVersion is the NuGet package version, e.g. "1.2.3-beta".
	PackageVersion string

	// IsPreRelease is true when PackageVersion carries a pre-release suffix.
	IsPreRelease bool

	// SemVer is the parsed version, or nil when PackageVersion is not semver.
	SemVer *semver.Version
}

// Tool wraps the dotnet and nbgv command lines.
type Tool struct {
	executor     process.Executor
	homeDir      func() (string, error)
	strictStderr bool
	dryRun       bool
}

// Option configures a Tool.
type Option func(*Tool)

// WithStrictStderr makes any stderr output of the JSON query fatal.
func WithStrictStderr(strict bool) Option {
	return func(t *Tool) { t.strictStderr = strict }
}

// WithDryRun makes GetVersion report DryRunVersion when the executor produced no output.
func WithDryRun(dryRun bool) Option {
	return func(t *Tool) { t.dryRun = dryRun }
}

// WithHomeDir overrides the home directory lookup.
func WithHomeDir(fn func() (string, error)) Option {
	return func(t *Tool) { t.homeDir = fn }
}

// New creates a Tool running commands through executor.
func New(executor process.Executor, opts ...Option) *Tool {
	defer perf.Track(nil, "nbgv.New")()

	t := &Tool{executor: executor, homeDir: os.UserHomeDir}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Install installs nbgv as a global dotnet tool. An install that fails
// because the tool is already present is recovered by updating it instead.
func (t *Tool) Install(ctx context.Context) error {
	defer perf.Track(nil, "nbgv.Tool.Install")()

	_, installErr := t.executor.Run(ctx, &process.Command{
		Name:   "dotnet",
		Args:   []string{"tool", "install", "-g", ToolName},
		Stream: true,
	})
	if installErr == nil {
		return nil
	}

	log.Debug("dotnet tool install failed, trying update", "error", installErr)
	if _, err := t.executor.Run(ctx, &process.Command{
		Name:   "dotnet",
		Args:   []string{"tool", "update", "-g", ToolName},
		Stream: true,
	}); err != nil {
		return errUtils.Build(errUtils.ErrToolInstallFailed).
			WithCause(err).
			WithExplanationf("dotnet tool install failed first: %v", installErr).
			WithContext("tool", ToolName).
			WithHint("Make sure the .NET SDK is installed and on PATH").
			Err()
	}
	return nil
}

// ToolsDir returns the directory global dotnet tools are installed into.
func (t *Tool) ToolsDir() (string, error) {
	home, err := t.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dotnet", "tools"), nil
}

// GetVersion prints the human-readable version of the project in dir and then
// resolves its package version from the JSON output.
func (t *Tool) GetVersion(ctx context.Context, dir string) (*Version, error) {
	defer perf.Track(nil, "nbgv.Tool.GetVersion")()

	if _, err := t.executor.Run(ctx, &process.Command{
		Name:   ToolName,
		Args:   []string{"get-version", "-p", dir},
		Stream: true,
	}); err != nil {
		return nil, errUtils.Build(errUtils.ErrVersionToolFailed).
			WithCause(err).
			WithContext("dir", dir).
			Err()
	}

	res, err := t.executor.Run(ctx, &process.Command{
		Name: ToolName,
		Args: []string{"get-version", "-f", "json", "-p", dir},
	})
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrVersionToolFailed).
			WithCause(err).
			WithContext("dir", dir).
			Err()
	}

	if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
		if t.strictStderr {
			return nil, errUtils.Build(errUtils.ErrVersionToolStderr).
				WithCause(errors.New(stderr)).
				WithContext("dir", dir).
				Err()
		}
		log.Warn("nbgv wrote to stderr", "stderr", stderr)
	}

	if t.dryRun && strings.TrimSpace(res.Stdout) == "" {
		return NewVersion(DryRunVersion), nil
	}

	packageVersion, err := ParseVersionJSON([]byte(res.Stdout))
	if err != nil {
		return nil, err
	}

	return NewVersion(packageVersion), nil
}

// NewVersion classifies packageVersion.
func NewVersion(packageVersion string) *Version {
	v := &Version{
		PackageVersion: packageVersion,
		IsPreRelease:   IsPreRelease(packageVersion),
	}

	sv, err := semver.NewVersion(packageVersion)
	if err != nil {
		log.Warn("Package version is not a semantic version", "version", packageVersion, "error", err)
		return v
	}
	v.SemVer = sv
	return v
}

// IsPreRelease reports whether version contains a hyphen.
func IsPreRelease(version string) bool {
	return strings.Contains(version, "-")
}

// ParseVersionJSON extracts CloudBuildAllVars.NBGV_NuGetPackageVersion from
// the output of `nbgv get-version -f json`.
func ParseVersionJSON(data []byte) (string, error) {
	defer perf.Track(nil, "nbgv.ParseVersionJSON")()

	var out struct {
		CloudBuildAllVars map[string]interface{} `json:"CloudBuildAllVars"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", errUtils.Build(errUtils.ErrVersionOutputMalformed).
			WithCause(err).
			Err()
	}

	value, ok := out.CloudBuildAllVars[PackageVersionVar].(string)
	if !ok || value == "" {
		return "", errUtils.Build(errUtils.ErrVersionFieldMissing).
			WithHint("Check that version.json is valid and the repository history is available (fetch-depth: 0)").
			Err()
	}

	return value, nil
}

// DescriptorDir returns the directory of a version.json path with a trailing separator.
func DescriptorDir(path string) string {
	dir := filepath.Dir(process.TrimOutput(path))
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + string(filepath.Separator)
}
