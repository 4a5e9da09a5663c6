// Package memstore provides an in-process EntryStore for development and tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/target/crms-console/internal/ports"
)

var (
	_ ports.EntryStore  = (*Store)(nil)
	_ ports.EntryPurger = (*Store)(nil)
)

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Store keeps entries in memory. Contents are lost on restart.
type Store struct {
	mu     sync.RWMutex
	scopes map[string]map[string]entry
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{scopes: make(map[string]map[string]entry), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(_ context.Context, scope string, keys ...string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(keys))
	entries := s.scopes[scope]
	now := s.now()
	for _, k := range keys {
		if e, ok := entries[k]; ok && !e.expired(now) {
			out[k] = e.value
		}
	}
	return out, nil
}

func (s *Store) Put(_ context.Context, scope string, entries map[string]string, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dst, ok := s.scopes[scope]
	if !ok {
		dst = make(map[string]entry, len(entries))
		s.scopes[scope] = dst
	}
	for k, v := range entries {
		dst[k] = entry{value: v, expiresAt: expiresAt}
	}
	return nil
}

func (s *Store) Delete(_ context.Context, scope string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.scopes[scope]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(entries, k)
	}
	if len(entries) == 0 {
		delete(s.scopes, scope)
	}
	return nil
}

// PurgeExpired drops expired entries and empty scopes.
func (s *Store) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var n int64
	for scope, entries := range s.scopes {
		for k, e := range entries {
			if e.expired(now) {
				delete(entries, k)
				n++
			}
		}
		if len(entries) == 0 {
			delete(s.scopes, scope)
		}
	}
	return n, nil
}
