package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/target/crms-console/internal/adapters/memstore"
	"github.com/target/crms-console/internal/domain/auth"
	"github.com/target/crms-console/internal/gateway"
	"github.com/target/crms-console/internal/session"
	"github.com/target/crms-console/internal/testutil"
)

const testCSRFToken = "test-csrf-token"

// consoleHarness drives the full router for one browser context against a FakeAPI.
type consoleHarness struct {
	t        *testing.T
	API      *testutil.FakeAPI
	Sessions *session.Provider
	Handler  http.Handler
	ctxID    string
}

func newConsoleHarness(t *testing.T) *consoleHarness {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	return newConsoleHarnessAt(t, api, api.BaseURL())
}

func newConsoleHarnessAt(t *testing.T, api *testutil.FakeAPI, baseURL string) *consoleHarness {
	t.Helper()
	skipWithoutTemplates(t)

	provider := session.NewProvider(memstore.New(), time.Hour, nil)
	gw, err := gateway.New(gateway.Config{BaseURL: baseURL, Timeout: 2 * time.Second})
	require.NoError(t, err)

	handler, err := NewRouter(RouterConfig{
		Sessions:   provider,
		Gateway:    gw,
		TemplateFS: os.DirFS(TemplatePathFromTest),
		StaticFS:   os.DirFS("../../web/static"),
	})
	require.NoError(t, err)

	return &consoleHarness{t: t, API: api, Sessions: provider, Handler: handler, ctxID: uuid.NewString()}
}

// signIn stores a session for the harness browser context without calling the API.
func (c *consoleHarness) signIn(role auth.Role) {
	c.t.Helper()
	err := c.Sessions.For(c.ctxID).Save(context.Background(), auth.Session{Username: "alice", Role: role, Token: "abc123"})
	require.NoError(c.t, err)
}

func (c *consoleHarness) session() (auth.Session, bool) {
	return c.Sessions.For(c.ctxID).Current(context.Background())
}

type harnessRequest struct {
	method string
	target string
	form   url.Values
	htmx   bool
}

func (c *consoleHarness) get(target string) *httptest.ResponseRecorder {
	return c.do(harnessRequest{method: http.MethodGet, target: target})
}

func (c *consoleHarness) htmxGet(target string) *httptest.ResponseRecorder {
	return c.do(harnessRequest{method: http.MethodGet, target: target, htmx: true})
}

func (c *consoleHarness) post(target string, form url.Values) *httptest.ResponseRecorder {
	return c.do(harnessRequest{method: http.MethodPost, target: target, form: form})
}

// do sends the request with the context and CSRF cookies a browser would carry and,
// like a browser, keeps any context cookie the response sets.
func (c *consoleHarness) do(hr harnessRequest) *httptest.ResponseRecorder {
	var body io.Reader
	if hr.form != nil {
		body = strings.NewReader(hr.form.Encode())
	}
	req := httptest.NewRequest(hr.method, hr.target, body)
	if hr.form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(&http.Cookie{Name: ContextCookieName, Value: c.ctxID})
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})
	req.Header.Set(CSRFHeaderName, testCSRFToken)
	if hr.htmx {
		req.Header.Set("Hx-Request", "true")
	}
	rec := httptest.NewRecorder()
	c.Handler.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == ContextCookieName && ck.Value != "" {
			c.ctxID = ck.Value
		}
	}
	return rec
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
