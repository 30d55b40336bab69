// Package memory provides an in-memory upload-history repository.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-upload/pkg/simpleupload/repo"
)

// Repository implements repo.Repository in memory.
type Repository struct {
	mu      sync.RWMutex
	uploads map[uuid.UUID]*repo.Record
}

// New creates a new in-memory repository.
func New() repo.Repository {
	return &Repository{uploads: make(map[uuid.UUID]*repo.Record)}
}

func (r *Repository) CreateUpload(ctx context.Context, record *repo.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	stored := *record
	r.uploads[record.ID] = &stored
	return nil
}

func (r *Repository) GetUpload(ctx context.Context, id uuid.UUID) (*repo.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.uploads[id]
	if !exists {
		return nil, repo.ErrUploadNotFound
	}
	result := *record
	return &result, nil
}

func (r *Repository) ListUploads(ctx context.Context, params repo.ListParams) ([]*repo.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*repo.Record
	for _, record := range r.uploads {
		if params.Bucket != "" && record.Bucket != params.Bucket {
			continue
		}
		result := *record
		records = append(records, &result)
	}

	// Newest first, matching the postgres implementation's ordering.
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if params.Offset > 0 {
		if params.Offset >= len(records) {
			return []*repo.Record{}, nil
		}
		records = records[params.Offset:]
	}
	if params.Limit > 0 && params.Limit < len(records) {
		records = records[:params.Limit]
	}

	return records, nil
}
