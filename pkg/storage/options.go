package storage

import "time"

// Option configures Put operations.
type Option func(*putOptions)

type putOptions struct {
	key         string
	prefix      string
	contentType string
	acl         ACL
}

// WithKey sets an explicit storage key, replacing the generated one.
// Use it to overwrite a file at a known location.
func WithKey(key string) Option {
	return func(o *putOptions) { o.key = key }
}

// WithPrefix prepends a path prefix to the generated key.
func WithPrefix(prefix string) Option {
	return func(o *putOptions) { o.prefix = prefix }
}

// WithContentType overrides the detected content type. Prefer
// detection from magic bytes.
func WithContentType(ct string) Option {
	return func(o *putOptions) { o.contentType = ct }
}

// WithACL overrides the default ACL for this upload.
func WithACL(acl ACL) Option {
	return func(o *putOptions) { o.acl = acl }
}

// URLOption configures URL generation.
type URLOption func(*urlOptions)

type urlOptions struct {
	downloadName string
	expiry       time.Duration
	forcePublic  bool
}

// DefaultURLExpiry is the default lifetime of signed URLs.
const DefaultURLExpiry = 15 * time.Minute

// WithExpiry sets the signed URL lifetime.
func WithExpiry(d time.Duration) URLOption {
	return func(o *urlOptions) {
		if d > 0 {
			o.expiry = d
		}
	}
}

// WithDownload sets the filename for a Content-Disposition attachment
// header, forcing the browser to download rather than render.
func WithDownload(filename string) URLOption {
	return func(o *urlOptions) { o.downloadName = filename }
}

// WithPublic returns the unsigned public URL. Only useful for files
// uploaded with ACLPublicRead or buckets with public access.
func WithPublic() URLOption {
	return func(o *urlOptions) { o.forcePublic = true }
}
