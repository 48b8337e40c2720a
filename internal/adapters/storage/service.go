// Package storage is the S3-compatible object store behind product images.
package storage

import (
	"context"
	"io"
	"time"

	"storefront_backend/platform/apperr"
)

// ErrNotConfigured is returned when an upload is attempted without a
// storage backend.
var ErrNotConfigured = apperr.Validation("object storage is not configured")

// PresignedURL is a time-limited download link for a stored object.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StorageService abstracts the object store so the catalog service never
// touches the MinIO client directly.
type StorageService interface {
	// UploadFile streams an object in and returns its generated key. The
	// folder becomes the key prefix, typically the product id.
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)

	// GenerateDownloadURL presigns a GET for the given key.
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*PresignedURL, error)

	// DeleteObject removes a stored object.
	DeleteObject(ctx context.Context, bucket, fileKey string) error

	// EnsureBucketExists creates the bucket when missing.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// ValidateContentType rejects types other than the allowed image set.
	ValidateContentType(contentType string) error

	// ValidateFileSize rejects objects over the configured limit.
	ValidateFileSize(sizeBytes int64) error
}

// Config is the slice of configuration the MinIO client needs.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	IsMinIOEnabled() bool
}
