package ci

import (
	"os"

	jsoniter "github.com/json-iterator/go"

	errUtils "github.com/cloudposse/artifactor/errors"
	"github.com/cloudposse/artifactor/pkg/perf"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EventPayload is the subset of the webhook event file the pipeline reads.
type EventPayload struct {
	PullRequest *PullRequestPayload `json:"pull_request"`
}

// PullRequestPayload is the pull_request object of a pull request event.
type PullRequestPayload struct {
	Number int `json:"number"`
}

// ReadEventPayload reads and decodes the event file at path.
func ReadEventPayload(path string) (*EventPayload, error) {
	defer perf.Track(nil, "ci.ReadEventPayload")()

	if path == "" {
		return nil, errUtils.Build(errUtils.ErrEventPayloadRead).
			WithHint("GITHUB_EVENT_PATH must point at the event JSON file").
			Err()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrEventPayloadRead).
			WithCause(err).
			WithContext("path", path).
			Err()
	}

	var payload EventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errUtils.Build(errUtils.ErrEventPayloadInvalid).
			WithCause(err).
			WithContext("path", path).
			Err()
	}

	return &payload, nil
}

// PullRequestNumber returns the pull request number from the event file at path.
func PullRequestNumber(path string) (int, error) {
	defer perf.Track(nil, "ci.PullRequestNumber")()

	payload, err := ReadEventPayload(path)
	if err != nil {
		return 0, err
	}

	if payload.PullRequest == nil || payload.PullRequest.Number <= 0 {
		return 0, errUtils.Build(errUtils.ErrPullRequestNumber).
			WithContext("path", path).
			Err()
	}

	return payload.PullRequest.Number, nil
}
