package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func csrfEcho() http.Handler {
	return CSRFProtection("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	}))
}

func TestCSRFProtection_GetIssuesCookie(t *testing.T) {
	w := httptest.NewRecorder()
	csrfEcho().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	resp := w.Result()
	defer resp.Body.Close()
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == CSRFCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("CSRF cookie not set")
	}
	if w.Body.String() != cookie.Value {
		t.Fatalf("template token %q does not match cookie %q", w.Body.String(), cookie.Value)
	}
}

func TestCSRFProtection_PostWithoutTokenFails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
	w := httptest.NewRecorder()
	csrfEcho().ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", w.Code)
	}
}

func TestCSRFProtection_PostWithHeaderToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
	req.Header.Set(CSRFHeaderName, "tok")
	w := httptest.NewRecorder()
	csrfEcho().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestCSRFProtection_PostWithFormField(t *testing.T) {
	form := url.Values{CSRFFieldName: {"tok"}, "title": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
	w := httptest.NewRecorder()
	csrfEcho().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestCSRFProtection_MismatchFails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
	req.Header.Set(CSRFHeaderName, "other")
	w := httptest.NewRecorder()
	csrfEcho().ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", w.Code)
	}
}
