// Package memory implements an in-memory object store used in tests and as
// a stand-in backend when no real storage is configured.
package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Object is a stored object together with the parameters it was written
// with.
type Object struct {
	Data        []byte
	ACL         string
	ContentType string
}

// Store is an in-memory object store.
type Store struct {
	mu      sync.RWMutex
	objects map[string]Object
	puts    int
	uploads int
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{objects: make(map[string]Object)}
}

func key(bucket, objectKey string) string {
	return fmt.Sprintf("%s/%s", bucket, objectKey)
}

// Upload stores streamed content.
func (s *Store) Upload(ctx context.Context, bucket, objectKey string, r io.Reader, acl, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	s.objects[key(bucket, objectKey)] = Object{Data: data, ACL: acl, ContentType: contentType}
	return nil
}

// Put stores buffered content.
func (s *Store) Put(ctx context.Context, bucket, objectKey string, r io.Reader, acl, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	s.objects[key(bucket, objectKey)] = Object{Data: data, ACL: acl, ContentType: contentType}
	return nil
}

// Get returns the stored object for bucket/objectKey.
func (s *Store) Get(bucket, objectKey string) (Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.objects[key(bucket, objectKey)]
	if !exists {
		return Object{}, errors.New("object not found")
	}
	return obj, nil
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Calls returns how many Upload and Put calls the store has served.
func (s *Store) Calls() (uploads, puts int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uploads, s.puts
}
