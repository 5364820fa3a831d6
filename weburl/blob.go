package weburl

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrBlobNotFound is returned by BlobStore.Resolve for unknown or revoked
// blob URLs.
var ErrBlobNotFound = errors.New("weburl: blob URL not found")

// BlobStore maps blob: URLs to in-memory objects. It is safe for concurrent
// use.
type BlobStore[T any] struct {
	mu      sync.RWMutex
	origin  string
	objects map[string]T
}

// NewBlobStore creates a store whose URLs carry the given origin, such as
// "https://example.com". An empty origin produces "blob:null/<id>" URLs.
func NewBlobStore[T any](origin string) *BlobStore[T] {
	if origin == "" {
		origin = "null"
	}
	return &BlobStore[T]{
		origin:  origin,
		objects: make(map[string]T),
	}
}

// CreateObjectURL registers obj under a fresh blob: URL and returns it.
func (s *BlobStore[T]) CreateObjectURL(obj T) string {
	href := "blob:" + s.origin + "/" + uuid.NewString()

	s.mu.Lock()
	s.objects[href] = obj
	s.mu.Unlock()

	return href
}

// Resolve returns the object registered under href. A fragment on href is
// ignored.
func (s *BlobStore[T]) Resolve(href string) (T, error) {
	var zero T

	u, err := Parse(href)
	if err != nil {
		return zero, err
	}
	if u.c.scheme() != "blob" {
		return zero, ErrBlobNotFound
	}
	u.SetHash("")

	s.mu.RLock()
	obj, ok := s.objects[u.Href()]
	s.mu.RUnlock()

	if !ok {
		return zero, ErrBlobNotFound
	}
	return obj, nil
}

// RevokeObjectURL drops the object registered under href. A fragment on
// href is ignored, as are unknown or unparsable URLs.
func (s *BlobStore[T]) RevokeObjectURL(href string) {
	u, err := Parse(href)
	if err != nil || u.c.scheme() != "blob" {
		return
	}
	u.SetHash("")

	s.mu.Lock()
	delete(s.objects, u.Href())
	s.mu.Unlock()
}

// Len returns the number of registered objects.
func (s *BlobStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
