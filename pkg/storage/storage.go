// Package storage provides file storage over S3-compatible object
// stores, with MIME detection and signed URL generation.
package storage

import (
	"context"
	"io"
)

// Storage is the file storage contract exposed to handlers.
type Storage interface {
	// Put uploads data from a reader. The size is used for the
	// content-length header. Options customize key, prefix, ACL, and
	// content type.
	Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error)

	// Get retrieves a file. The caller closes the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file.
	Delete(ctx context.Context, key string) error

	// URL generates an access URL: signed by default, public when
	// requested via WithPublic.
	URL(ctx context.Context, key string, opts ...URLOption) (string, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	// Bucket is the bucket name (required).
	Bucket string

	// AccessKey and SecretKey are the static credentials (required).
	AccessKey string
	SecretKey string

	// Endpoint overrides the S3 endpoint, for MinIO and other
	// S3-compatible services.
	Endpoint string

	// Region defaults to us-east-1.
	Region string

	// PublicURL is an optional CDN prefix used for public URLs.
	PublicURL string

	// DefaultACL is applied to uploads without an explicit ACL.
	// Defaults to private.
	DefaultACL ACL

	// PathStyle enables path-style URLs, required for MinIO.
	PathStyle bool
}

// FileInfo describes an uploaded file.
type FileInfo struct {
	Key         string
	ContentType string
	ACL         ACL
	Size        int64
}

// ACL is the access control level of a stored file.
type ACL string

const (
	// ACLPrivate restricts access to signed URLs.
	ACLPrivate ACL = "private"

	// ACLPublicRead allows unauthenticated reads.
	ACLPublicRead ACL = "public-read"
)

// DefaultRegion is applied when the config leaves Region empty.
const DefaultRegion = "us-east-1"

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.DefaultACL == "" {
		c.DefaultACL = ACLPrivate
	}
}

func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}
