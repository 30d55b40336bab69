package simpleupload

import (
	"context"
	"io"
)

// ObjectStore defines the interface for storage backends. The S3
// implementation lives under storage/s3; storage/memory provides an
// in-memory implementation for tests. The acl string is one of the canned
// ACLs (empty means provider default) and contentType may be empty.
type ObjectStore interface {
	// Upload streams content of unknown length to bucket/key. Backends may
	// chunk the stream (multipart) as they see fit.
	Upload(ctx context.Context, bucket, key string, r io.Reader, acl, contentType string) error

	// Put stores content as a single object write. Used for bodies that are
	// already fully available, such as a fetched HTTP response.
	Put(ctx context.Context, bucket, key string, r io.Reader, acl, contentType string) error
}
