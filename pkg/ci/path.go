package ci

import (
	"os"
	"path/filepath"

	"github.com/cloudposse/artifactor/pkg/perf"
)

// PrependProcessPath puts dir in front of PATH for this process and its children.
// It is a no-op when dir is already the first entry.
func PrependProcessPath(dir string) error {
	defer perf.Track(nil, "ci.PrependProcessPath")()

	current := os.Getenv("PATH")
	entries := filepath.SplitList(current)
	if len(entries) > 0 && entries[0] == dir {
		return nil
	}

	if current == "" {
		return os.Setenv("PATH", dir)
	}
	return os.Setenv("PATH", dir+string(os.PathListSeparator)+current)
}

// AppendPathFile records dir in a path file such as $GITHUB_PATH, one entry per line.
func AppendPathFile(pathFile, dir string) error {
	defer perf.Track(nil, "ci.AppendPathFile")()

	return appendToFile(pathFile, dir+"\n")
}
