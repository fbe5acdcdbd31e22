// Package filematch discovers files in the working tree with doublestar globs.
package filematch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	errUtils "github.com/cloudposse/artifactor/errors"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/perf"
)

// FindAll returns every regular file named name below root, shallowest first.
func FindAll(root, name string) ([]string, error) {
	defer perf.Track(nil, "filematch.FindAll")()

	return glob(root, "**/"+name)
}

// FindOne returns the single file named name below root.
// A miss returns notFound; several matches return the shallowest one and log a warning.
func FindOne(root, name string, notFound error) (string, error) {
	defer perf.Track(nil, "filematch.FindOne")()

	matches, err := FindAll(root, name)
	if err != nil {
		return "", err
	}

	if len(matches) == 0 {
		return "", errUtils.Build(notFound).
			WithHintf("Add a %s file below %s", name, root).
			WithContext("root", root).
			Err()
	}

	if len(matches) > 1 {
		log.Warn("Found more than one file, using the first", "name", name, "using", matches[0], "candidates", len(matches))
	}

	return matches[0], nil
}

// ListFiles returns every regular file below root.
func ListFiles(root string) ([]string, error) {
	defer perf.Track(nil, "filematch.ListFiles")()

	return glob(root, "**")
}

func glob(root, pattern string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrFileNotFound).
			WithCause(err).
			WithContext("path", root).
			Err()
	}
	if !info.IsDir() {
		return nil, errUtils.Build(errUtils.ErrFileNotFound).
			WithExplanationf("%s is not a directory", root).
			Err()
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, err
	}

	sortByDepth(matches)

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		if !fs.ValidPath(m) {
			continue
		}
		paths = append(paths, filepath.Join(root, filepath.FromSlash(m)))
	}

	return paths, nil
}

// sortByDepth orders slash-separated paths by directory depth, then lexically.
func sortByDepth(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		di, dj := strings.Count(paths[i], "/"), strings.Count(paths[j], "/")
		if di != dj {
			return di < dj
		}
		return paths[i] < paths[j]
	})
}
