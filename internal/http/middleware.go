package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/crms-console/internal/domain/auth"
	"github.com/target/crms-console/internal/gateway"
	"github.com/target/crms-console/internal/service"
	"github.com/target/crms-console/internal/session"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Bool("htmx", IsHTMX(r)),
				slog.Duration("duration", time.Since(start)),
			}
			if target := HXTarget(r); target != "" {
				attrs = append(attrs, slog.String("hx_target", target))
			}
			logger.LogAttrs(r.Context(), slog.LevelInfo, "http", attrs...)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// BrowserContextConfig groups dependencies for BrowserContext.
type BrowserContextConfig struct {
	Sessions     *session.Provider
	Gateway      *gateway.Client
	CookieDomain string
	Logger       *slog.Logger
}

// BrowserContext assigns each browser a context id cookie and binds the session
// store, gateway and services for that context into the request.
func BrowserContext(cfg BrowserContextConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") || r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}

			id := contextIDFromRequest(r)
			if id == "" {
				id = uuid.NewString()
				setContextCookie(w, r, cfg.CookieDomain, id)
			}

			bind := func(id string) (*session.Store, *service.Set) {
				store := cfg.Sessions.For(id)
				return store, service.NewSet(service.SetOptions{
					Gateway:  cfg.Gateway.WithTokens(store),
					Sessions: store,
					Logger:   logger,
				})
			}
			store, services := bind(id)
			scope := &RequestScope{
				ContextID:    id,
				Sessions:     store,
				Services:     services,
				bind:         bind,
				cookieDomain: cfg.CookieDomain,
			}
			scope.Session, scope.LoggedIn = store.Current(r.Context())

			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}

// contextIDFromRequest returns the cookie's id when it is a well-formed UUID.
func contextIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(ContextCookieName)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

// rotateContext moves the browser to a freshly minted context id so an id chosen
// before authentication never carries a session. sess, when non-nil, is saved under
// the new id; the previous scope is cleared either way.
func (s *RequestScope) rotateContext(w http.ResponseWriter, r *http.Request, sess *domainauth.Session) error {
	if s.bind == nil {
		return errors.New("request scope cannot rotate")
	}
	ctx := r.Context()
	id := uuid.NewString()
	store, services := s.bind(id)
	if sess != nil {
		if err := store.Save(ctx, *sess); err != nil {
			return errors.Join(fmt.Errorf("save rotated session: %w", err), s.Sessions.Clear(ctx))
		}
	}
	if err := s.Sessions.Clear(ctx); err != nil {
		return errors.Join(fmt.Errorf("clear previous context: %w", err), store.Clear(ctx))
	}
	setContextCookie(w, r, s.cookieDomain, id)

	s.ContextID, s.Sessions, s.Services = id, store, services
	if sess != nil {
		s.Session, s.LoggedIn = *sess, true
	} else {
		s.Session, s.LoggedIn = domainauth.Session{}, false
	}
	return nil
}

func setContextCookie(w http.ResponseWriter, r *http.Request, domain, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     ContextCookieName,
		Value:    id,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   r.TLS != nil || isForwardedHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   contextCookieMaxAge,
	})
}

// RequireSession redirects anonymous browsers to the login page.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFrom(r.Context()); !ok {
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSection renders 403 unless the session's role may open section.
func (h *UIHandlers) RequireSection(section domainauth.Section, next http.HandlerFunc) http.Handler {
	return RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domainauth.CanAccess(CurrentRole(r.Context()), section) {
			h.forbidden(w, r)
			return
		}
		next(w, r)
	}))
}

// RequireAction renders 403 unless the session's role may perform action.
func (h *UIHandlers) RequireAction(action domainauth.Action, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !domainauth.Allows(CurrentRole(r.Context()), action) {
			h.forbidden(w, r)
			return
		}
		next(w, r)
	}
}

// redirectToLogin sends the browser to /login; htmx requests get HX-Redirect.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) {
		HTMX(w).Redirect("/login")
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// isForwardedHTTPS checks if the request was forwarded over HTTPS.
// Handles comma-separated values in X-Forwarded-Proto header.
func isForwardedHTTPS(r *http.Request) bool {
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
