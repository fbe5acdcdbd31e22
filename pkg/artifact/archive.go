package artifact

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	errUtils "github.com/cloudposse/artifactor/errors"
	"github.com/cloudposse/artifactor/pkg/perf"
)

// archive is a zip file on disk with its size and digest.
type archive struct {
	Path string
	Size int64

	// SHA256 is the hex digest of the whole file.
	SHA256 string
}

// Hash returns the digest in the "sha256:<hex>" form the results service expects.
func (a *archive) Hash() string {
	return "sha256:" + a.SHA256
}

// createArchive zips items into a temporary file. The caller removes a.Path.
func createArchive(items []entry) (*archive, error) {
	defer perf.Track(nil, "artifact.createArchive")()

	f, err := os.CreateTemp("", "artifact-*.zip")
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrArtifactArchive).WithCause(err).Err()
	}

	fail := func(err error) (*archive, error) {
		f.Close()
		os.Remove(f.Name())
		return nil, errUtils.Build(errUtils.ErrArtifactArchive).WithCause(err).Err()
	}

	digest := sha256.New()
	counter := &countingWriter{w: io.MultiWriter(f, digest)}
	zw := zip.NewWriter(counter)

	for _, item := range items {
		if err := addFile(zw, item); err != nil {
			return fail(err)
		}
	}
	if err := zw.Close(); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, errUtils.Build(errUtils.ErrArtifactArchive).WithCause(err).Err()
	}

	return &archive{
		Path:   f.Name(),
		Size:   counter.n,
		SHA256: hex.EncodeToString(digest.Sum(nil)),
	}, nil
}

func addFile(zw *zip.Writer, item entry) error {
	src, err := os.Open(item.Path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = item.Rel
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
