package artifact

import (
	"context"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"

	errUtils "github.com/cloudposse/artifactor/errors"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/perf"
	"github.com/cloudposse/artifactor/pkg/schema"
)

// LocalUploader copies artifacts into <dir>/<name>.
type LocalUploader struct {
	dir string
}

// NewLocalUploader creates a LocalUploader rooted at dir.
func NewLocalUploader(dir string) *LocalUploader {
	return &LocalUploader{dir: dir}
}

// Backend implements Uploader.
func (u *LocalUploader) Backend() string {
	return schema.ArtifactBackendLocal
}

// Upload implements Uploader. An existing artifact with the same name is replaced.
func (u *LocalUploader) Upload(ctx context.Context, name string, files []string, rootDir string) (*UploadResult, error) {
	defer perf.Track(nil, "artifact.LocalUploader.Upload")()

	if err := ValidateName(name); err != nil {
		return nil, err
	}

	items, err := entries(files, rootDir)
	if err != nil {
		return nil, err
	}

	dest := filepath.Join(u.dir, name)
	if err := os.RemoveAll(dest); err != nil {
		return nil, errUtils.Build(errUtils.ErrArtifactUpload).WithCause(err).WithContext("path", dest).Err()
	}

	opts := cp.Options{
		PreserveTimes: true,
		OnSymlink: func(string) cp.SymlinkAction {
			return cp.Deep
		},
	}

	var size int64
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target := filepath.Join(dest, filepath.FromSlash(item.Rel))
		if err := cp.Copy(item.Path, target, opts); err != nil {
			return nil, errUtils.Build(errUtils.ErrArtifactUpload).
				WithCause(err).
				WithContext("file", item.Path).
				Err()
		}

		if info, err := os.Stat(target); err == nil {
			size += info.Size()
		}
	}

	log.Info("Stored artifact", "name", name, "path", dest, "files", len(items))

	return &UploadResult{Name: name, Size: size, Location: dest}, nil
}
