package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"lawfirm-crm/internal/config"
)

// Uploader stores attachment bytes and returns a public URL
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// S3Uploader uploads attachments to an S3-compatible bucket
type S3Uploader struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewS3Uploader creates an uploader against the configured endpoint
func NewS3Uploader(cfg *config.StorageConfig) (*S3Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// Upload stores the object and returns its public URL, built from the
// configured base path as {base}/{bucket}/{key}
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s/%s", u.baseURL, u.bucket, key), nil
}

// AttachmentKey builds the storage key for an attachment. The folder is the
// matched client's id, or "unknown" when the sender matched no client. The
// object name combines a millisecond timestamp with the original file
// extension; two uploads in the same millisecond collide unless their
// extensions differ.
func AttachmentKey(clientID *uint, filename string, at time.Time) string {
	folder := "unknown"
	if clientID != nil {
		folder = fmt.Sprintf("%d", *clientID)
	}
	return fmt.Sprintf("attachments/%s/%d%s", folder, at.UnixMilli(), path.Ext(filename))
}
