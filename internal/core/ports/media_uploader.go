package ports

import (
	"context"
	"io"
)

// MediaUploader stores a file with the external media host and returns a
// durable public URL. Failures wrap domain.ErrUploadFailed.
type MediaUploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}
