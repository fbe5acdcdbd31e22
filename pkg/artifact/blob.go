package artifact

import (
	"context"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"

	"github.com/cloudposse/artifactor/pkg/perf"
)

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -source=blob.go -destination=mock_blob.go -package=artifact

const (
	archiveContentType = "zip"
	applicationID      = "artifactor"
)

// BlobAPI uploads a file to a pre-signed blob URL.
type BlobAPI interface {
	UploadFile(ctx context.Context, signedURL string, file *os.File) error
}

// blockBlobUploader uploads with the Azure block blob client, which the
// signed URLs of the results service point at.
type blockBlobUploader struct{}

// NewBlobAPI returns the Azure-backed BlobAPI.
func NewBlobAPI() BlobAPI {
	return &blockBlobUploader{}
}

func (b *blockBlobUploader) UploadFile(ctx context.Context, signedURL string, file *os.File) error {
	defer perf.Track(nil, "artifact.blockBlobUploader.UploadFile")()

	client, err := blockblob.NewClientWithNoCredential(signedURL, &blockblob.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Telemetry: policy.TelemetryOptions{
				ApplicationID: applicationID,
			},
		},
	})
	if err != nil {
		return err
	}

	_, err = client.UploadFile(ctx, file, &blockblob.UploadFileOptions{
		Concurrency: 1,
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: to.Ptr(archiveContentType),
		},
	})
	return err
}
