package artifact

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	errUtils "github.com/cloudposse/artifactor/errors"
	httpClient "github.com/cloudposse/artifactor/pkg/http"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/perf"
	"github.com/cloudposse/artifactor/pkg/retry"
	"github.com/cloudposse/artifactor/pkg/schema"
)

const (
	// RuntimeTokenEnv holds the job-scoped token for the results service.
	RuntimeTokenEnv = "ACTIONS_RUNTIME_TOKEN"

	// ResultsURLEnv holds the base URL of the results service.
	ResultsURLEnv = "ACTIONS_RESULTS_URL"

	artifactServicePath = "/twirp/github.actions.results.api.v1.ArtifactService/"
	resultsScopePrefix  = "Actions.Results"
	artifactVersion     = 4
)

// createArtifactRequest is the JSON form of the CreateArtifact Twirp message.
type createArtifactRequest struct {
	WorkflowRunBackendID    string `json:"workflow_run_backend_id"`
	WorkflowJobRunBackendID string `json:"workflow_job_run_backend_id"`
	Name                    string `json:"name"`
	ExpiresAt               string `json:"expires_at,omitempty"`
	Version                 int    `json:"version"`
}

type createArtifactResponse struct {
	OK              bool   `json:"ok"`
	SignedUploadURL string `json:"signed_upload_url"`
	SignedUploadURI string `json:"signedUploadUrl"`
}

func (r *createArtifactResponse) uploadURL() string {
	if r.SignedUploadURL != "" {
		return r.SignedUploadURL
	}
	return r.SignedUploadURI
}

type finalizeArtifactRequest struct {
	WorkflowRunBackendID    string `json:"workflow_run_backend_id"`
	WorkflowJobRunBackendID string `json:"workflow_job_run_backend_id"`
	Name                    string `json:"name"`
	Size                    string `json:"size"`
	Hash                    string `json:"hash,omitempty"`
}

type finalizeArtifactResponse struct {
	OK            bool      `json:"ok"`
	ArtifactID    flexInt64 `json:"artifact_id"`
	ArtifactIDAlt flexInt64 `json:"artifactId"`
}

// flexInt64 decodes an int64 sent either as a JSON number or a JSON string.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*f = flexInt64(n)
	return nil
}

// GitHubUploader uploads artifacts to the GitHub Actions results service.
type GitHubUploader struct {
	resultsURL    string
	runID         string
	jobID         string
	client        httpClient.Client
	blob          BlobAPI
	retry         retry.Config
	retentionDays int
	now           func() time.Time
}

// GitHubOption configures a GitHubUploader.
type GitHubOption func(*GitHubUploader)

// WithRetentionDays sets the artifact expiry. Zero keeps the repository default.
func WithRetentionDays(days int) GitHubOption {
	return func(u *GitHubUploader) { u.retentionDays = days }
}

// WithHTTPClient replaces the results service client.
func WithHTTPClient(client httpClient.Client) GitHubOption {
	return func(u *GitHubUploader) { u.client = client }
}

// WithBlobAPI replaces the blob uploader.
func WithBlobAPI(blob BlobAPI) GitHubOption {
	return func(u *GitHubUploader) { u.blob = blob }
}

// WithRetry replaces the retry policy for results service calls.
func WithRetry(config retry.Config) GitHubOption {
	return func(u *GitHubUploader) { u.retry = config }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) GitHubOption {
	return func(u *GitHubUploader) { u.now = now }
}

// NewGitHubUploader reads the runtime token and results URL from getenv.
func NewGitHubUploader(getenv func(string) string, opts ...GitHubOption) (*GitHubUploader, error) {
	defer perf.Track(nil, "artifact.NewGitHubUploader")()

	if getenv == nil {
		getenv = os.Getenv
	}

	token := getenv(RuntimeTokenEnv)
	if token == "" {
		return nil, errUtils.ErrRuntimeTokenMissing
	}
	resultsURL := getenv(ResultsURLEnv)
	if resultsURL == "" {
		return nil, errUtils.ErrResultsURLMissing
	}

	runID, jobID, err := BackendIDs(token)
	if err != nil {
		return nil, err
	}

	u := &GitHubUploader{
		resultsURL: strings.TrimSuffix(resultsURL, "/"),
		runID:      runID,
		jobID:      jobID,
		client:     httpClient.NewDefaultClient(httpClient.WithBearerToken(token)),
		blob:       NewBlobAPI(),
		retry:      retry.DefaultConfig(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// BackendIDs extracts the workflow run and job backend IDs from the
// "Actions.Results:<run>:<job>" scope of the runtime token. The token is
// not verified; the results service does that.
func BackendIDs(token string) (string, string, error) {
	defer perf.Track(nil, "artifact.BackendIDs")()

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", "", errUtils.Build(errUtils.ErrRuntimeTokenInvalid).WithCause(err).Err()
	}

	scp, _ := claims["scp"].(string)
	for _, scope := range strings.Fields(scp) {
		parts := strings.Split(scope, ":")
		if parts[0] != resultsScopePrefix {
			continue
		}
		if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
			return "", "", errUtils.Build(errUtils.ErrRuntimeTokenInvalid).
				WithExplanationf("malformed scope %q", scope).
				Err()
		}
		return parts[1], parts[2], nil
	}

	return "", "", errUtils.Build(errUtils.ErrRuntimeTokenInvalid).
		WithExplanation("token has no Actions.Results scope").
		Err()
}

// Backend implements Uploader.
func (u *GitHubUploader) Backend() string {
	return schema.ArtifactBackendGitHub
}

// Upload implements Uploader: zip, create, upload to the signed URL, finalize.
func (u *GitHubUploader) Upload(ctx context.Context, name string, files []string, rootDir string) (*UploadResult, error) {
	defer perf.Track(nil, "artifact.GitHubUploader.Upload")()

	if err := ValidateName(name); err != nil {
		return nil, err
	}

	items, err := entries(files, rootDir)
	if err != nil {
		return nil, err
	}

	zipped, err := createArchive(items)
	if err != nil {
		return nil, err
	}
	defer os.Remove(zipped.Path)
	log.Debug("Created artifact archive", "name", name, "files", len(items), "size", zipped.Size)

	createReq := &createArtifactRequest{
		WorkflowRunBackendID:    u.runID,
		WorkflowJobRunBackendID: u.jobID,
		Name:                    name,
		Version:                 artifactVersion,
	}
	if u.retentionDays > 0 {
		createReq.ExpiresAt = u.now().UTC().AddDate(0, 0, u.retentionDays).Format(time.RFC3339)
	}

	var createResp createArtifactResponse
	if err := u.call(ctx, "CreateArtifact", createReq, &createResp); err != nil {
		return nil, errUtils.Build(errUtils.ErrArtifactCreate).WithCause(err).WithContext("name", name).Err()
	}
	if !createResp.OK || createResp.uploadURL() == "" {
		return nil, errUtils.Build(errUtils.ErrArtifactCreate).
			WithContext("name", name).
			WithHint("An artifact with this name may already exist in this run").
			Err()
	}

	f, err := os.Open(zipped.Path)
	if err != nil {
		return nil, errUtils.Build(errUtils.ErrArtifactUpload).WithCause(err).Err()
	}
	defer f.Close()

	if err := u.blob.UploadFile(ctx, createResp.uploadURL(), f); err != nil {
		return nil, errUtils.Build(errUtils.ErrArtifactUpload).WithCause(err).WithContext("name", name).Err()
	}

	finalizeReq := &finalizeArtifactRequest{
		WorkflowRunBackendID:    u.runID,
		WorkflowJobRunBackendID: u.jobID,
		Name:                    name,
		Size:                    strconv.FormatInt(zipped.Size, 10),
		Hash:                    zipped.Hash(),
	}

	var finalizeResp finalizeArtifactResponse
	if err := u.call(ctx, "FinalizeArtifact", finalizeReq, &finalizeResp); err != nil {
		return nil, errUtils.Build(errUtils.ErrArtifactFinalize).WithCause(err).WithContext("name", name).Err()
	}
	if !finalizeResp.OK {
		return nil, errUtils.Build(errUtils.ErrArtifactFinalize).WithContext("name", name).Err()
	}

	id := int64(finalizeResp.ArtifactID)
	if id == 0 {
		id = int64(finalizeResp.ArtifactIDAlt)
	}

	log.Info("Uploaded artifact", "name", name, "id", id, "size", zipped.Size)

	return &UploadResult{Name: name, ID: id, Size: zipped.Size}, nil
}

// call posts a Twirp JSON request, retrying transient failures.
func (u *GitHubUploader) call(ctx context.Context, method string, in, out any) error {
	url := u.resultsURL + artifactServicePath + method
	return retry.Do(ctx, u.retry, httpClient.IsRetryable, func() error {
		return httpClient.PostJSON(ctx, u.client, url, in, out)
	})
}
