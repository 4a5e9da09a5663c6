// Package filestore provides an EntryStore backed by one JSON file per scope.
// The operator CLI uses it to keep its login between invocations.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/target/crms-console/internal/ports"
)

var (
	_ ports.EntryStore  = (*Store)(nil)
	_ ports.EntryPurger = (*Store)(nil)
)

// ErrInvalidScope is returned for scopes that cannot be used as a file name.
var ErrInvalidScope = errors.New("invalid scope")

var scopePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

const (
	dirPerm  fs.FileMode = 0o700
	filePerm fs.FileMode = 0o600
	fileExt              = ".json"
)

type record struct {
	Value     string     `json:"value"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (r record) expired(now time.Time) bool {
	return r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}

type document struct {
	Entries map[string]record `json:"entries"`
}

// Store persists entries under dir. A process-local mutex serializes writers;
// each write replaces the scope file atomically via rename.
type Store struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// New returns a Store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// DefaultDir returns $XDG_CONFIG_HOME/crms (or the platform equivalent).
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "crms"), nil
}

func (s *Store) path(scope string) (string, error) {
	if !scopePattern.MatchString(scope) {
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}
	return filepath.Join(s.dir, scope+fileExt), nil
}

func (s *Store) load(path string) (document, error) {
	doc := document{Entries: map[string]record{}}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("decode %s: %w", path, err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]record{}
	}
	return doc, nil
}

func (s *Store) write(path string, doc document) error {
	if len(doc.Entries) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		return nil
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".entries-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		return errors.Join(fmt.Errorf("write temp file: %w", err), tmp.Close(), os.Remove(tmpName))
	}
	if err := tmp.Chmod(filePerm); err != nil {
		return errors.Join(fmt.Errorf("chmod temp file: %w", err), tmp.Close(), os.Remove(tmpName))
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(fmt.Errorf("close temp file: %w", err), os.Remove(tmpName))
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Join(fmt.Errorf("replace %s: %w", path, err), os.Remove(tmpName))
	}
	return nil
}

func (s *Store) Get(_ context.Context, scope string, keys ...string) (map[string]string, error) {
	path, err := s.path(scope)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(path)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if r, ok := doc.Entries[k]; ok && !r.expired(now) {
			out[k] = r.Value
		}
	}
	return out, nil
}

func (s *Store) Put(_ context.Context, scope string, entries map[string]string, ttl time.Duration) error {
	path, err := s.path(scope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(path)
	if err != nil {
		// A corrupt file is replaced rather than blocking a fresh login.
		doc = document{Entries: map[string]record{}}
	}
	var expiresAt *time.Time
	if ttl > 0 {
		t := s.now().Add(ttl).UTC()
		expiresAt = &t
	}
	for k, v := range entries {
		doc.Entries[k] = record{Value: v, ExpiresAt: expiresAt}
	}
	return s.write(path, doc)
}

func (s *Store) Delete(_ context.Context, scope string, keys ...string) error {
	path, err := s.path(scope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(path)
	if err != nil {
		doc = document{Entries: map[string]record{}}
	}
	for _, k := range keys {
		delete(doc.Entries, k)
	}
	return s.write(path, doc)
}

// PurgeExpired rewrites every scope file without its expired entries.
func (s *Store) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := filepath.Glob(filepath.Join(s.dir, "*"+fileExt))
	if err != nil {
		return 0, fmt.Errorf("list scope files: %w", err)
	}
	now := s.now()
	var (
		n    int64
		errs []error
	)
	for _, path := range files {
		doc, loadErr := s.load(path)
		if loadErr != nil {
			errs = append(errs, loadErr)
			continue
		}
		before := len(doc.Entries)
		for k, r := range doc.Entries {
			if r.expired(now) {
				delete(doc.Entries, k)
			}
		}
		if removed := before - len(doc.Entries); removed > 0 {
			if writeErr := s.write(path, doc); writeErr != nil {
				errs = append(errs, writeErr)
				continue
			}
			n += int64(removed)
		}
	}
	return n, errors.Join(errs...)
}
