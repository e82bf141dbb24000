package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrEmptyContent = errors.New("blob content is empty")

// Store is the narrow interface to the external blob storage collaborator.
// Paths are namespaced per account by callers; uploaded objects are
// publicly readable at the returned URL.
type Store interface {
	Upload(ctx context.Context, path string, content []byte, contentType string) (string, error)
}

type storedObject struct {
	content     []byte
	contentType string
}

// InMemoryStore implements Store with in-process storage for dev and tests
type InMemoryStore struct {
	mu      sync.RWMutex
	objects map[string]storedObject
	baseURL string
}

// NewInMemoryStore creates a new in-memory blob store. baseURL prefixes
// the public URLs it hands out.
func NewInMemoryStore(baseURL string) *InMemoryStore {
	return &InMemoryStore{
		objects: make(map[string]storedObject),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload stores the content and returns its public URL
func (s *InMemoryStore) Upload(ctx context.Context, path string, content []byte, contentType string) (string, error) {
	if len(content) == 0 {
		return "", ErrEmptyContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimLeft(path, "/")
	s.objects[key] = storedObject{content: content, contentType: contentType}
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// Get returns a stored object, for tests and the dev server
func (s *InMemoryStore) Get(path string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[strings.TrimLeft(path, "/")]
	return obj.content, obj.contentType, ok
}

// Len returns the number of stored objects
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
