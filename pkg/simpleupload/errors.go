package simpleupload

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrInvalidACL indicates an ACL value outside the canned set
	ErrInvalidACL = errors.New("invalid canned ACL")

	// ErrEndpointRequired indicates a missing endpoint for an endpoint-bound client
	ErrEndpointRequired = errors.New("endpoint is required")

	// ErrCredentialsRequired indicates missing access credentials
	ErrCredentialsRequired = errors.New("access key ID and secret access key are required")

	// ErrUploadFailed indicates an upload operation failed
	ErrUploadFailed = errors.New("upload failed")
)

// ConfigError represents an error in client or request configuration,
// detected before any network call is made.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// StorageError represents an error returned by the underlying object store
// during an upload. The cause is propagated unmodified via Unwrap.
type StorageError struct {
	Bucket string
	Key    string
	Op     string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s in bucket %s: %v", e.Op, e.Key, e.Bucket, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// FetchError represents a failure to retrieve a remote resource before
// uploading it. StatusCode is zero when the request itself failed.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch failed for %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch failed for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
