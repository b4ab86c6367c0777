package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// registryFile is the on-disk document. Profiles are kept as an ordered
// list so the registry order and the credentials live in one record; a
// single file replace updates both together.
type registryFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// FileStore persists profiles to a YAML file. The whole registry is
// rewritten through a temp-file rename on every mutation, so concurrent
// readers see either the old or the new registry, never a partially
// written one. Concurrent Add of the same name is last-write-wins.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore creates a store backed by the given file path. The file is
// created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the default profiles file path (~/.jira-summarizer-profiles.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jira-summarizer-profiles.yaml"
	}
	return filepath.Join(home, ".jira-summarizer-profiles.yaml")
}

// Add stores a new profile. Fails with ErrDuplicateProfile if the name is
// already registered, leaving the existing entry unchanged.
func (s *FileStore) Add(p Profile) error {
	if p.Name == "" {
		return ErrNameEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range reg.Profiles {
		if existing.Name == p.Name {
			return fmt.Errorf("%w: %q", ErrDuplicateProfile, p.Name)
		}
	}
	reg.Profiles = append(reg.Profiles, p)
	return s.save(reg)
}

// Get returns the profile for name, with false when no such profile exists.
func (s *FileStore) Get(name string) (Profile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, err := s.load()
	if err != nil {
		return Profile{}, false, err
	}
	for _, p := range reg.Profiles {
		if p.Name == name {
			return p, true, nil
		}
	}
	return Profile{}, false, nil
}

// List returns all registered profile names in registration order.
func (s *FileStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(reg.Profiles))
	for _, p := range reg.Profiles {
		names = append(names, p.Name)
	}
	return names, nil
}

// Delete removes the named profile. Deleting an unknown name is a no-op.
func (s *FileStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.load()
	if err != nil {
		return err
	}
	kept := reg.Profiles[:0]
	found := false
	for _, p := range reg.Profiles {
		if p.Name == name {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return nil
	}
	reg.Profiles = kept
	return s.save(reg)
}

// Update overwrites an existing profile's credentials in place.
func (s *FileStore) Update(p Profile) error {
	if p.Name == "" {
		return ErrNameEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.load()
	if err != nil {
		return err
	}
	for i, existing := range reg.Profiles {
		if existing.Name == p.Name {
			reg.Profiles[i] = p
			return s.save(reg)
		}
	}
	return fmt.Errorf("%w: %q", ErrProfileNotFound, p.Name)
}

func (s *FileStore) load() (registryFile, error) {
	var reg registryFile

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return reg, nil
		}
		return reg, fmt.Errorf("reading profiles file: %w", err)
	}
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return reg, fmt.Errorf("parsing profiles file: %w", err)
	}
	return reg, nil
}

func (s *FileStore) save(reg registryFile) error {
	data, err := yaml.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshalling profiles: %w", err)
	}

	// Write-then-rename keeps the registry and credentials consistent for
	// readers in other processes.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing profiles file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing profiles file: %w", err)
	}
	return nil
}
