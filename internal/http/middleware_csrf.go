package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const (
	// CSRFCookieName holds the double-submit token.
	CSRFCookieName = "crms_csrf"
	// CSRFHeaderName is sent by htmx (see layout.tmpl hx-headers).
	CSRFHeaderName = "X-Csrf-Token"
	// CSRFFieldName is the hidden form field used by plain form posts.
	CSRFFieldName = "csrf_token"

	csrfTokenBytes = 32
)

// CSRFProtection implements the double-submit cookie pattern. Safe methods pass
// through; every other method must echo the cookie value in the header or form field.
func CSRFProtection(cookieDomain string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(CSRFCookieName); err == nil {
				token = c.Value
			}
			if token == "" {
				var err error
				if token, err = newCSRFToken(); err != nil {
					http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					Domain:   cookieDomain,
					Secure:   r.TLS != nil || isForwardedHTTPS(r),
					SameSite: http.SameSiteStrictMode,
					MaxAge:   12 * 3600,
				})
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))
			if !isSafeMethod(r.Method) && !csrfTokenMatches(r, token) {
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}

// newCSRFToken fails closed when the random source is unavailable.
func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func csrfTokenMatches(r *http.Request, token string) bool {
	submitted := r.Header.Get(CSRFHeaderName)
	if submitted == "" {
		ct := r.Header.Get("Content-Type")
		if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
			if err := r.ParseForm(); err != nil {
				return false
			}
			submitted = r.PostFormValue(CSRFFieldName)
		}
	}
	return submitted != "" && subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) == 1
}

type csrfTokenKey struct{}

// GetCSRFToken returns the token for templates to embed in forms.
func GetCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}
