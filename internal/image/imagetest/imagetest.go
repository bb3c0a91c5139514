// Package imagetest provides an in-memory image.Store for tests.
package imagetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/matt-dz/foodgram/internal/image"
)

var _ image.Store = (*Store)(nil)

// Store keeps written images in a map. WriteErr and DeleteErr, when set,
// are returned by the matching method.
type Store struct {
	mu        sync.Mutex
	next      int
	Objects   map[string][]byte
	Deleted   []string
	WriteErr  error
	DeleteErr error
}

func New() *Store {
	return &Store{Objects: map[string][]byte{}}
}

func (s *Store) WriteRecipeImage(_ context.Context, suffix string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return "", s.WriteErr
	}
	s.next++
	key := fmt.Sprintf("recipes/images/%d%s", s.next, suffix)
	s.Objects[key] = data
	return key, nil
}

func (s *Store) DeleteKey(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, key)
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.Objects, key)
	return nil
}

func (s *Store) FileURL(key string) string {
	return "http://images.test/" + key
}

// Has reports whether key is currently stored.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Objects[key]
	return ok
}
