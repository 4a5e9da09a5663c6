package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/target/crms-console/internal/domain/auth"
	"github.com/target/crms-console/internal/gateway"
)

// SessionStore is the session state written by login and logout.
type SessionStore interface {
	Save(ctx context.Context, sess auth.Session) error
	Current(ctx context.Context) (auth.Session, bool)
	Clear(ctx context.Context) error
}

const loginFailed = "Login failed"

// ErrNoToken is the cause when the login response carries no token.
var ErrNoToken = errors.New("login response carried no token")

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Gateway  Gateway
	Sessions SessionStore
	Logger   *slog.Logger
}

// AuthService exchanges credentials for a bearer token and owns the session lifecycle.
type AuthService struct {
	gateway  Gateway
	sessions SessionStore
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		gateway:  opts.Gateway,
		sessions: opts.Sessions,
		logger:   logger.With("component", "auth_service"),
	}
}

// Login posts credentials to /auth/login without a bearer token and, on success,
// saves the returned session. The error message is the server's, or "Login failed".
func (s *AuthService) Login(ctx context.Context, username, password string) (auth.Session, error) {
	var resp auth.LoginResponse
	req := gateway.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   auth.Credentials{Username: username, Password: password},
	}
	if err := s.gateway.Do(ctx, req, &resp); err != nil {
		return auth.Session{}, wrap("login", loginMessage(err), err)
	}
	if resp.Token == "" {
		return auth.Session{}, wrap("login", loginFailed, ErrNoToken)
	}

	sess := auth.Session{
		Username: resp.Username,
		Role:     auth.ParseRole(resp.Role),
		Token:    resp.Token,
	}
	if sess.Username == "" {
		sess.Username = username
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.WarnContext(ctx, "login succeeded but session was not saved",
			"username", sess.Username, "role", resp.Role, "error", err)
		return auth.Session{}, wrap("login", loginFailed, err)
	}
	s.logger.InfoContext(ctx, "login", "username", sess.Username, "role", sess.Role)
	return sess, nil
}

// loginMessage surfaces a server-provided message; generic status text is replaced by "Login failed".
func loginMessage(err error) string {
	rf, ok := gateway.AsRequestFailed(err)
	if !ok || rf.Message == "" || rf.Message == http.StatusText(rf.Status) || rf.Message == "invalid response body" {
		return loginFailed
	}
	return rf.Message
}

// Logout clears the session. It never calls the API.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return wrap("logout", "Logout failed", err)
	}
	return nil
}

// CurrentUser returns the stored session, if any.
func (s *AuthService) CurrentUser(ctx context.Context) (auth.Session, bool) {
	return s.sessions.Current(ctx)
}
