package httpx

import (
	"context"

	domainauth "github.com/target/crms-console/internal/domain/auth"
	"github.com/target/crms-console/internal/service"
	"github.com/target/crms-console/internal/session"
)

// RequestScope is everything bound to the browser context of one request.
type RequestScope struct {
	ContextID string
	Sessions  *session.Store
	Services  *service.Set
	// Session is the state read when the request arrived; LoggedIn reports whether it was present.
	Session  domainauth.Session
	LoggedIn bool

	// bind builds the session store and services for a context id.
	bind         func(id string) (*session.Store, *service.Set)
	cookieDomain string
}

// scopeKey is an unexported context key type to avoid collisions across packages.
type scopeKey struct{}

// WithScope returns a child context carrying scope.
func WithScope(ctx context.Context, scope *RequestScope) context.Context {
	if scope == nil {
		return ctx
	}
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the request scope installed by BrowserContext.
func ScopeFrom(ctx context.Context) (*RequestScope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(*RequestScope)
	return scope, ok && scope != nil
}

// SessionFrom returns the current session and whether one is present.
func SessionFrom(ctx context.Context) (domainauth.Session, bool) {
	scope, ok := ScopeFrom(ctx)
	if !ok || !scope.LoggedIn {
		return domainauth.Session{}, false
	}
	return scope.Session, true
}

// CurrentRole returns the session's role, or RoleNone when anonymous.
func CurrentRole(ctx context.Context) domainauth.Role {
	sess, ok := SessionFrom(ctx)
	if !ok {
		return domainauth.RoleNone
	}
	return sess.Role
}
