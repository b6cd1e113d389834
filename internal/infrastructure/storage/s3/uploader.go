// Package s3 implements the media uploader against an S3-compatible object
// store. Uploaded files are stored under a random key and served back as a
// public URL; there is no retry and no local fallback.
package s3

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/primetrade/taskboard/internal/core/domain"
)

const keyPrefix = "uploads"

// Config captures the settings required to reach the bucket.
type Config struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	// PublicURL is the base URL objects are served from. When empty, the
	// standard virtual-hosted bucket URL is used.
	PublicURL string
}

type Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func New(ctx context.Context, cfg Config) (*Uploader, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &Uploader{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}, nil
}

// Upload stores the file under a generated key and returns its public URL.
// Failures wrap domain.ErrUploadFailed so the API layer can report them
// distinctly from store faults.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := u.objectKey(filename)

	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w: %s", key, domain.ErrUploadFailed, err)
	}

	return u.publicURL + "/" + key, nil
}

// objectKey builds a collision-free key while keeping the original file
// extension so the served content type stays guessable.
func (u *Uploader) objectKey(filename string) string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)

	ext := path.Ext(filename)
	return fmt.Sprintf("%s/%s%s", keyPrefix, hex.EncodeToString(b), ext)
}
