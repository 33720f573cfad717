package identity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appDir   = "mock-interview"
	fileName = "identity.yaml"
)

var ErrNoIdentity = errors.New("not logged in")

// Identity is the client-held proof of login. Email is what the backend reads
// from the X-User-Email header; AccessToken is kept only as issued.
type Identity struct {
	Email       string `yaml:"email"`
	AccessToken string `yaml:"access_token,omitempty"`
	Guest       bool   `yaml:"guest,omitempty"`
}

func (i Identity) Empty() bool {
	return strings.TrimSpace(i.Email) == ""
}

// Store is the single process-wide source of the current identity. Writers go
// through Set and Clear; readers either call Current or Subscribe to changes.
type Store struct {
	path string

	mu          sync.RWMutex
	current     Identity
	nextID      int
	subscribers map[int]func(Identity)
}

// DefaultPath returns the identity file location inside the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Open loads the identity stored at path. A missing file yields an empty identity.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("identity file path is required")
	}

	s := &Store{
		path:        path,
		subscribers: make(map[int]func(Identity)),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read identity file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &s.current); err != nil {
		return nil, fmt.Errorf("parse identity file %q: %w", path, err)
	}
	s.current.Email = strings.TrimSpace(s.current.Email)

	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Current() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Email implements backend.IdentitySource.
func (s *Store) Email() string {
	return s.Current().Email
}

// Require returns the current identity or ErrNoIdentity.
func (s *Store) Require() (Identity, error) {
	id := s.Current()
	if id.Empty() {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}

// Set persists the identity and notifies subscribers. The last write wins.
func (s *Store) Set(id Identity) error {
	id.Email = strings.TrimSpace(id.Email)
	if id.Email == "" {
		return errors.New("identity email is required")
	}

	data, err := yaml.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	s.mu.Lock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("create identity dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("write identity file %q: %w", s.path, err)
	}
	s.current = id
	subscribers := s.snapshotSubscribers()
	s.mu.Unlock()

	notify(subscribers, id)
	return nil
}

// Clear removes the local identity. There is no server-side revocation.
func (s *Store) Clear() error {
	s.mu.Lock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.mu.Unlock()
		return fmt.Errorf("remove identity file %q: %w", s.path, err)
	}
	s.current = Identity{}
	subscribers := s.snapshotSubscribers()
	s.mu.Unlock()

	notify(subscribers, Identity{})
	return nil
}

// Subscribe registers fn to be called synchronously after every Set or Clear.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Identity)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// snapshotSubscribers must be called with s.mu held.
func (s *Store) snapshotSubscribers() []func(Identity) {
	fns := make([]func(Identity), 0, len(s.subscribers))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.subscribers[i]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

func notify(fns []func(Identity), id Identity) {
	for _, fn := range fns {
		fn(id)
	}
}
