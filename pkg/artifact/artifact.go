// Package artifact uploads extracted build output as a named artifact bundle.
package artifact

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	errUtils "github.com/cloudposse/artifactor/errors"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/perf"
	"github.com/cloudposse/artifactor/pkg/schema"
)

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -source=artifact.go -destination=mock_artifact.go -package=artifact

// Uploader stores a set of files, rooted at rootDir, under name.
type Uploader interface {
	// Backend returns the backend name ("github", "local").
	Backend() string

	// Upload stores files as one artifact. Each file keeps its path relative to rootDir.
	Upload(ctx context.Context, name string, files []string, rootDir string) (*UploadResult, error)
}

// UploadResult describes a stored artifact.
type UploadResult struct {
	Name string

	// ID is the backend identifier, zero when the backend has none.
	ID int64

	// Size is the number of bytes stored.
	Size int64

	// Location is where the artifact can be found, when meaningful.
	Location string
}

// invalidNameChars may not appear in artifact names.
var invalidNameChars = []string{`"`, ":", "<", ">", "|", "*", "?", "\r", "\n", `\`, "/"}

// Name returns the artifact name for an application and package version.
func Name(appName, packageVersion string) string {
	return appName + "-" + packageVersion
}

// ValidateName rejects empty names and names containing characters the
// artifact service does not accept.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errUtils.Build(errUtils.ErrArtifactNameInvalid).
			WithExplanation("artifact name is empty").
			Err()
	}

	found := lo.Filter(invalidNameChars, func(c string, _ int) bool {
		return strings.Contains(name, c)
	})
	if len(found) > 0 {
		return errUtils.Build(errUtils.ErrArtifactNameInvalid).
			WithExplanationf("artifact name contains invalid characters: %q", strings.Join(found, " ")).
			WithContext("name", name).
			Err()
	}

	return nil
}

// entry is one file to store and its slash-separated path inside the artifact.
type entry struct {
	Path string
	Rel  string
}

// entries maps files to their paths relative to rootDir, deduplicated and
// in input order.
func entries(files []string, rootDir string) ([]entry, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}

	result := make([]entry, 0, len(files))
	for _, file := range lo.Uniq(files) {
		absFile, err := filepath.Abs(file)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(absRoot, absFile)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, errUtils.Build(errUtils.ErrInvalidInput).
				WithExplanationf("%s is not below the artifact root %s", file, rootDir).
				Err()
		}
		result = append(result, entry{Path: file, Rel: filepath.ToSlash(rel)})
	}

	if len(result) == 0 {
		return nil, errUtils.Build(errUtils.ErrNoArtifactFiles).
			WithContext("root", rootDir).
			WithHint("Check that the image contains files at the container path").
			Err()
	}

	return result, nil
}

// NewUploader returns the uploader for cfg.Backend. The auto backend uses
// GitHub when the runner exposes the results service, and the local
// directory otherwise.
func NewUploader(cfg *schema.ArtifactConfig, getenv func(string) string) (Uploader, error) {
	defer perf.Track(nil, "artifact.NewUploader")()

	if getenv == nil {
		getenv = os.Getenv
	}

	backend := strings.ToLower(cfg.Backend)
	if backend == "" || backend == schema.ArtifactBackendAuto {
		backend = schema.ArtifactBackendLocal
		if getenv(RuntimeTokenEnv) != "" && getenv(ResultsURLEnv) != "" {
			backend = schema.ArtifactBackendGitHub
		}
		log.Debug("Selected artifact backend", "backend", backend)
	}

	switch backend {
	case schema.ArtifactBackendGitHub:
		u, err := NewGitHubUploader(getenv, WithRetentionDays(cfg.RetentionDays))
		if err != nil {
			return nil, errUtils.Build(errUtils.ErrArtifactBackendNeedCI).
				WithCause(err).
				WithHint("Use artifact-backend: local outside GitHub Actions").
				Err()
		}
		return u, nil
	case schema.ArtifactBackendLocal:
		dir := cfg.Dir
		if dir == "" {
			dir = schema.DefaultArtifactDir
		}
		return NewLocalUploader(dir), nil
	default:
		return nil, errUtils.Build(errUtils.ErrInvalidArtifactMode).
			WithContext("backend", cfg.Backend).
			Err()
	}
}
