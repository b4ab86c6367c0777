package profile

import (
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store used by tests and by server
// deployments that receive credentials per request instead of persisting
// them.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	order    []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]Profile)}
}

// Add stores a new profile, failing with ErrDuplicateProfile on a name clash.
func (s *MemoryStore) Add(p Profile) error {
	if p.Name == "" {
		return ErrNameEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateProfile, p.Name)
	}
	s.profiles[p.Name] = p
	s.order = append(s.order, p.Name)
	return nil
}

// Get returns the profile for name, with false when absent.
func (s *MemoryStore) Get(name string) (Profile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[name]
	return p, ok, nil
}

// List returns registered names in registration order.
func (s *MemoryStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.order))
	copy(names, s.order)
	return names, nil
}

// Delete removes the named profile; unknown names are a no-op.
func (s *MemoryStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[name]; !ok {
		return nil
	}
	delete(s.profiles, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Update overwrites an existing profile's credentials.
func (s *MemoryStore) Update(p Profile) error {
	if p.Name == "" {
		return ErrNameEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.Name]; !ok {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, p.Name)
	}
	s.profiles[p.Name] = p
	return nil
}
