// Package repo defines persistence for the upload history: one record per
// completed upload. Implementations live under memory and postgres.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Source type constants for upload records.
const (
	SourceTypeFile   = "file"
	SourceTypeRemote = "remote"
)

// ErrUploadNotFound indicates an upload record was not found.
var ErrUploadNotFound = errors.New("upload not found")

// Record describes one completed upload.
type Record struct {
	ID         uuid.UUID `json:"id"`
	Bucket     string    `json:"bucket"`
	ObjectKey  string    `json:"object_key"`
	ACL        string    `json:"acl"`
	SourceType string    `json:"source_type"` // "file" or "remote"
	Source     string    `json:"source"`      // local path or remote URL
	PublicURL  string    `json:"public_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListParams contains filters for listing upload records.
type ListParams struct {
	Bucket string
	Limit  int
	Offset int
}

// Repository defines the interface for upload-history persistence.
type Repository interface {
	CreateUpload(ctx context.Context, record *Record) error
	GetUpload(ctx context.Context, id uuid.UUID) (*Record, error)
	ListUploads(ctx context.Context, params ListParams) ([]*Record, error)
}
