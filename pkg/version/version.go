// Package version holds build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/cloudposse/artifactor/pkg/version.Version=1.2.3"
var (
	Version = "0.0.0-dev"
	Commit  = "none"
)

// String returns the one-line version banner.
func String() string {
	return fmt.Sprintf("artifactor %s (commit %s, %s %s/%s)", Version, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
