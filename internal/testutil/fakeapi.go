package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// RecordedRequest is one call observed by FakeAPI.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	Body          string
}

// FakeAPI is an httptest-backed stand-in for the CRMS REST API. Routes use
// net/http patterns ("GET /cases/{id}") relative to the API base path.
type FakeAPI struct {
	Server *httptest.Server

	mux      *http.ServeMux
	mu       sync.Mutex
	requests []RecordedRequest
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	f := &FakeAPI{mux: http.NewServeMux()}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL is the value to configure as the API base address.
func (f *FakeAPI) BaseURL() string {
	return f.Server.URL + "/api"
}

// Handle registers a handler under the /api prefix.
func (f *FakeAPI) Handle(pattern string, h http.HandlerFunc) {
	method, path, ok := strings.Cut(pattern, " ")
	if !ok {
		f.mux.HandleFunc("/api"+pattern, h)
		return
	}
	f.mux.HandleFunc(method+" /api"+path, h)
}

// Requests returns a copy of the requests seen so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// Do issues a request straight at the fake (for testing the fake itself).
func (f *FakeAPI) Do(t testing.TB, method, path, authorization string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.BaseURL()+path, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := f.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:        r.Method,
		Path:          strings.TrimPrefix(r.URL.EscapedPath(), "/api"),
		Authorization: r.Header.Get("Authorization"),
		Body:          string(body),
	})
	f.mu.Unlock()
	r.Body = io.NopCloser(strings.NewReader(string(body)))
	f.mux.ServeHTTP(w, r)
}

// JSON responds with status and v encoded as JSON.
func JSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Status responds with status and a raw body.
func Status(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}
