// Package imagetag derives container image names and tags from the ref that
// triggered a run.
package imagetag

import (
	"strconv"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"

	"github.com/cloudposse/artifactor/pkg/ci"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/perf"
)

const (
	tagsPrefix  = "refs/tags"
	headsPrefix = "refs/heads/"
	pullPrefix  = "refs/pull/"

	// EdgeLabel is used for refs that are neither tags, branches nor pull requests.
	EdgeLabel = "edge"
)

// Image is the computed naming of the image built for a run.
type Image struct {
	// Name is "[registry/]repository".
	Name string

	// Label is the version label derived from the ref.
	Label string

	// Tag is "Name:Label".
	Tag string
}

// VersionTag returns "imageName:version".
func VersionTag(imageName, version string) string {
	return imageName + ":" + version
}

// Repository returns the lower-cased application name.
func Repository(appName string) string {
	return strings.ToLower(appName)
}

// ImageName returns the repository prefixed by registry when one is set.
func ImageName(registry, appName string) string {
	repository := Repository(appName)
	registry = strings.TrimSuffix(registry, "/")
	if registry == "" {
		return repository
	}
	return registry + "/" + repository
}

// VersionLabel maps a ref to a version label:
//   - refs/tags/X: X
//   - refs/heads/A/B: A-B (first slash only)
//   - refs/pull/N/merge: pr-<number from the event payload at eventPath>
//   - anything else: edge
func VersionLabel(ref, eventPath string) (string, error) {
	defer perf.Track(nil, "imagetag.VersionLabel")()

	switch {
	case strings.HasPrefix(ref, tagsPrefix):
		return strings.Replace(ref, tagsPrefix+"/", "", 1), nil
	case strings.HasPrefix(ref, headsPrefix):
		branch := strings.Replace(ref, headsPrefix, "", 1)
		return strings.Replace(branch, "/", "-", 1), nil
	case strings.HasPrefix(ref, pullPrefix):
		number, err := ci.PullRequestNumber(eventPath)
		if err != nil {
			return "", err
		}
		return "pr-" + strconv.Itoa(number), nil
	default:
		return EdgeLabel, nil
	}
}

// Compute derives the image naming for appName from the run context.
func Compute(appName, registry string, ctx *ci.Context) (*Image, error) {
	defer perf.Track(nil, "imagetag.Compute")()

	label, err := VersionLabel(ctx.Ref, ctx.EventPath)
	if err != nil {
		return nil, err
	}

	image := &Image{
		Name:  ImageName(registry, appName),
		Label: label,
	}
	image.Tag = image.Name + ":" + label

	if err := Validate(image.Tag); err != nil {
		log.Warn("Image tag is not a valid reference, the container engine may reject it", "tag", image.Tag, "error", err)
	}

	return image, nil
}

// Validate parses ref as a tagged image reference.
func Validate(ref string) error {
	_, err := name.NewTag(ref)
	return err
}
