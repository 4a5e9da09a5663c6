// Package session holds the authenticated identity and bearer token of one
// browser context. The state lives in a ports.EntryStore under two entries,
// "token" and "user", and is either absent or complete.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/target/crms-console/internal/domain/auth"
	"github.com/target/crms-console/internal/ports"
)

// Entry names inside a scope.
const (
	TokenKey = "token"
	UserKey  = "user"
)

var (
	// ErrIncompleteSession is returned by Save when token, username or role is missing.
	ErrIncompleteSession = errors.New("session requires token, username and role")
	// ErrTokenExpired is returned by Save when the token carries an exp claim in the past.
	ErrTokenExpired = errors.New("session token already expired")
)

// userRecord is the JSON shape of the "user" entry.
type userRecord struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Store reads and writes the session of a single scope.
type Store struct {
	entries    ports.EntryStore
	scope      string
	defaultTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// Options configures a Store.
type Options struct {
	Entries ports.EntryStore
	Scope   string
	// DefaultTTL applies when the token carries no expiry. Zero keeps entries until cleared.
	DefaultTTL time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

// New constructs a Store for opts.Scope.
func New(opts Options) *Store {
	s := &Store{
		entries:    opts.Entries,
		scope:      opts.Scope,
		defaultTTL: opts.DefaultTTL,
		logger:     opts.Logger,
		now:        opts.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Scope returns the browser-context id this store is bound to.
func (s *Store) Scope() string { return s.scope }

// Save writes the session, replacing any previous one. Both entries are written together.
func (s *Store) Save(ctx context.Context, sess auth.Session) error {
	if !sess.Complete() {
		return ErrIncompleteSession
	}
	ttl, err := s.ttlFor(sess.Token)
	if err != nil {
		return err
	}

	user, err := json.Marshal(userRecord{Username: sess.Username, Role: string(sess.Role)})
	if err != nil {
		return fmt.Errorf("encode user entry: %w", err)
	}
	if err := s.entries.Put(ctx, s.scope, map[string]string{
		TokenKey: sess.Token,
		UserKey:  string(user),
	}, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ttlFor derives the entry lifetime from the token's exp claim when the token is a JWT.
// The signature is not checked; only the backend can verify it.
func (s *Store) ttlFor(token string) (time.Duration, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return s.defaultTTL, nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return s.defaultTTL, nil
	}
	ttl := exp.Sub(s.now())
	if ttl <= 0 {
		return 0, ErrTokenExpired
	}
	return ttl, nil
}

// Current returns the stored session. Any read or decode failure yields an absent session.
func (s *Store) Current(ctx context.Context) (auth.Session, bool) {
	got, err := s.entries.Get(ctx, s.scope, TokenKey, UserKey)
	if err != nil {
		s.logger.WarnContext(ctx, "session read failed", "scope", s.scope, "error", err)
		return auth.Session{}, false
	}

	token, hasToken := got[TokenKey]
	raw, hasUser := got[UserKey]
	switch {
	case !hasToken && !hasUser:
		return auth.Session{}, false
	case !hasToken || !hasUser:
		s.logger.WarnContext(ctx, "partial session ignored", "scope", s.scope,
			"has_token", hasToken, "has_user", hasUser)
		return auth.Session{}, false
	}

	var rec userRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.logger.WarnContext(ctx, "corrupt user entry ignored", "scope", s.scope, "error", err)
		return auth.Session{}, false
	}
	sess := auth.Session{Username: rec.Username, Role: auth.ParseRole(rec.Role), Token: token}
	if !sess.Complete() {
		s.logger.WarnContext(ctx, "incomplete session ignored", "scope", s.scope, "role", rec.Role)
		return auth.Session{}, false
	}
	return sess, true
}

// Clear removes the session. Clearing an absent session succeeds.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.entries.Delete(ctx, s.scope, TokenKey, UserKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Token returns the bearer token when a complete session is present.
func (s *Store) Token(ctx context.Context) (string, bool) {
	sess, ok := s.Current(ctx)
	if !ok {
		return "", false
	}
	return sess.Token, true
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

// HasRole applies pred to the current role. An absent session never matches.
func (s *Store) HasRole(ctx context.Context, pred auth.RolePredicate) bool {
	sess, ok := s.Current(ctx)
	return ok && pred(sess.Role)
}
