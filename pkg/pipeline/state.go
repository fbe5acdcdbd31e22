package pipeline

import (
	errUtils "github.com/cloudposse/artifactor/errors"
)

// State carries the values one step produces for the steps after it.
type State struct {
	// VersionDescriptor is the path of the discovered version.json.
	VersionDescriptor string
	PackageVersion    string
	IsPreRelease      bool

	ImageName    string
	ImageTag     string
	VersionLabel string

	// Revision and Repository come from the run context and end up in the image labels.
	Revision   string
	Repository string

	// Dockerfile is the path of the discovered build descriptor.
	Dockerfile string

	// ContainerID is set while an extract container exists.
	ContainerID string

	ExtractedFiles []string
	ArtifactName   string
	ArtifactID     int64
}

// require fails with ErrStateMissing when an earlier step did not set value.
func require(field, value string) error {
	if value != "" {
		return nil
	}
	return errUtils.Build(errUtils.ErrStateMissing).
		WithContext("field", field).
		Err()
}
