package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/target/crms-console/internal/adapters/memstore"
	"github.com/target/crms-console/internal/testutil"
)

type cliHarness struct {
	t   *testing.T
	API *testutil.FakeAPI
	cc  *commandContext
	out *bytes.Buffer
	err *bytes.Buffer
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	api := testutil.NewFakeAPI(t)

	h := &cliHarness{t: t, API: api, out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	cc, err := newCommandContext(context.Background(), contextOptions{
		BaseURL:    api.BaseURL(),
		Timeout:    2 * time.Second,
		Entries:    memstore.New(),
		DefaultTTL: time.Hour,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Out:        h.out,
		Err:        h.err,
		In:         strings.NewReader(""),
	})
	require.NoError(t, err)
	h.cc = cc
	return h
}

func (h *cliHarness) run(args ...string) error {
	h.t.Helper()
	h.out.Reset()
	return dispatch(h.cc, args)
}

func (h *cliHarness) acceptLogin() {
	h.API.Handle("POST /auth/login", testutil.JSON(http.StatusOK, map[string]string{
		"token": "abc123", "username": "alice", "role": "OFFICER",
	}))
}

// login may be called once per harness.
func (h *cliHarness) login() {
	h.t.Helper()
	h.acceptLogin()
	require.NoError(h.t, h.run("login", "-u", "alice", "-p", "secret"))
}

func TestLogin_StoresSession(t *testing.T) {
	h := newCLIHarness(t)
	h.login()

	assert.Equal(t, "Logged in as alice (OFFICER)\n", h.out.String())
	sess, ok := h.cc.Session.Current(context.Background())
	require.True(t, ok)
	assert.Equal(t, "abc123", sess.Token)

	reqs := h.API.Requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"username":"alice","password":"secret"}`, reqs[0].Body)
}

func TestLogin_ReadsPasswordFromStdin(t *testing.T) {
	h := newCLIHarness(t)
	h.acceptLogin()
	h.cc.In = strings.NewReader("from-stdin\n")

	require.NoError(t, h.run("login", "--username", "alice"))
	assert.Contains(t, h.err.String(), "Password: ")
	assert.JSONEq(t, `{"username":"alice","password":"from-stdin"}`, h.API.Requests()[0].Body)
}

func TestLogin_Rejected(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			h := newCLIHarness(t)
			h.API.Handle("POST /auth/login", testutil.JSON(status, map[string]string{"message": "Invalid credentials"}))

			err := h.run("login", "-u", "alice", "-p", "wrong")
			require.Error(t, err)
			assert.Equal(t, "Invalid credentials", err.Error())
			assert.False(t, h.cc.Session.IsAuthenticated(context.Background()))
		})
	}
}

func TestLogin_RequiresUsername(t *testing.T) {
	h := newCLIHarness(t)
	require.EqualError(t, h.run("login"), "--username is required")
}

func TestWhoami(t *testing.T) {
	h := newCLIHarness(t)
	require.ErrorIs(t, h.run("whoami"), errNotLoggedIn)

	h.login()
	require.NoError(t, h.run("whoami"))
	out := h.out.String()
	assert.Contains(t, out, "Crime Reports")
	assert.Contains(t, out, "Messaging")
	assert.NotContains(t, out, "Analytics")
	assert.NotContains(t, out, "Admin Panel")

	require.NoError(t, h.run("whoami", "-o", "json"))
	var got whoami
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
	assert.Equal(t, whoami{Username: "alice", Role: "OFFICER", Sections: []string{"reports", "cases", "messaging"}}, got)
}

func TestLogout_ClearsSession(t *testing.T) {
	h := newCLIHarness(t)
	h.login()

	require.NoError(t, h.run("logout"))
	assert.False(t, h.cc.Session.IsAuthenticated(context.Background()))
}

func TestListRequiresSessionWithoutCallingAPI(t *testing.T) {
	h := newCLIHarness(t)
	require.ErrorIs(t, h.run("cases", "list"), errNotLoggedIn)
	assert.Empty(t, h.API.Requests())
}

func TestUnauthorizedClearsLocalSession(t *testing.T) {
	h := newCLIHarness(t)
	h.API.Handle("GET /cases", testutil.Status(http.StatusUnauthorized, ""))
	h.login()

	err := h.run("cases", "list")
	require.ErrorIs(t, err, errNotLoggedIn)
	assert.Equal(t, "not logged in or session expired", err.Error())
	assert.False(t, h.cc.Session.IsAuthenticated(context.Background()))

	reqs := h.API.Requests()
	assert.Equal(t, "Bearer abc123", reqs[len(reqs)-1].Authorization)
}

func TestReportsList_TableAndStatus(t *testing.T) {
	h := newCLIHarness(t)
	h.API.Handle("GET /reports/status/{status}", testutil.JSON(http.StatusOK, []map[string]any{
		{"id": 3, "title": "Burglary on Elm", "location": "Elm St", "status": "OPEN", "category": map[string]any{"id": 1, "name": "Theft"}},
	}))
	h.login()

	require.NoError(t, h.run("reports", "list", "--status", "OPEN"))
	out := h.out.String()
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Burglary on Elm")
	assert.Contains(t, out, "Theft")

	reqs := h.API.Requests()
	assert.Equal(t, "/reports/status/OPEN", reqs[len(reqs)-1].Path)
}

func TestReportsList_QueryJSON(t *testing.T) {
	h := newCLIHarness(t)
	h.API.Handle("GET /reports", testutil.JSON(http.StatusOK, []map[string]any{
		{"id": 1, "title": "A", "status": "OPEN"},
		{"id": 2, "title": "B", "status": "CLOSED"},
	}))
	h.login()

	require.NoError(t, h.run("reports", "list", "-o", "json", "--query", "[?status=='OPEN'].title"))
	assert.JSONEq(t, `["A"]`, h.out.String())
}

func TestUsersList_YAMLAndActiveFilter(t *testing.T) {
	h := newCLIHarness(t)
	h.API.Handle("GET /users", testutil.JSON(http.StatusOK, []map[string]any{
		{"id": 1, "username": "alice", "isActive": true, "role": map[string]any{"id": 2, "name": "OFFICER"}},
		{"id": 2, "username": "bob", "isActive": false},
	}))
	h.login()

	require.NoError(t, h.run("users", "list", "--status", "active", "-o", "yaml"))
	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(h.out.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0]["username"])
}

func TestCasesClose(t *testing.T) {
	h := newCLIHarness(t)
	h.API.Handle("PUT /cases/{id}/close", testutil.JSON(http.StatusOK, map[string]any{
		"id": 7, "status": "CLOSED", "closedAt": "2024-03-01T10:00:00",
	}))
	h.login()

	require.NoError(t, h.run("cases", "close", "7"))
	assert.Contains(t, h.out.String(), "CLOSED")

	reqs := h.API.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, http.MethodPut, last.Method)
	assert.Equal(t, "/cases/7/close", last.Path)

	require.Error(t, h.run("cases", "close", "seven"))
	require.Error(t, h.run("cases", "close"))
}

func TestMessagesUnread(t *testing.T) {
	h := newCLIHarness(t)
	h.API.Handle("GET /messages/unread/{id}", testutil.JSON(http.StatusOK, []map[string]any{
		{"id": 9, "senderId": 2, "receiverId": 1, "subject": "Shift swap", "isRead": false},
	}))
	h.login()

	require.NoError(t, h.run("messages", "unread", "1"))
	assert.Contains(t, h.out.String(), "Shift swap")

	reqs := h.API.Requests()
	assert.Equal(t, "/messages/unread/1", reqs[len(reqs)-1].Path)
}

func TestAnalytics_Table(t *testing.T) {
	h := newCLIHarness(t)
	h.API.Handle("GET /analytics/dashboard", testutil.JSON(http.StatusOK, map[string]any{"totalReports": 10, "openCases": 4}))
	h.API.Handle("GET /analytics/trends", testutil.JSON(http.StatusOK, map[string]any{
		"categoryBreakdown": map[string]any{"Theft": 6},
	}))
	h.API.Handle("GET /analytics/case-stats", testutil.JSON(http.StatusOK, map[string]any{"resolutionRate": 62.5, "avgResolutionTime": 3.26}))
	h.login()

	require.NoError(t, h.run("analytics"))
	out := h.out.String()
	assert.Contains(t, out, "62.5%")
	assert.Contains(t, out, "3.3 days")
	assert.Contains(t, out, "Category: Theft")
}

func TestDispatch_UnknownCommands(t *testing.T) {
	h := newCLIHarness(t)
	require.EqualError(t, h.run("frobnicate"), `unknown command "frobnicate"`)
	require.ErrorContains(t, h.run("cases"), "missing subcommand")
	require.ErrorContains(t, h.run("cases", "reopen"), `unknown subcommand "reopen"`)

	require.NoError(t, h.run("help"))
	assert.Contains(t, h.out.String(), "Usage: crms-admin")
}

func TestOutputValidation(t *testing.T) {
	h := newCLIHarness(t)
	h.login()
	require.ErrorContains(t, h.run("cases", "list", "-o", "xml"), "unsupported output format")
	require.ErrorContains(t, h.run("cases", "list", "--query", "[?"), "invalid --query")
}

func TestGenericTable(t *testing.T) {
	tests := []struct {
		name string
		doc  any
		want table
	}{
		{
			name: "list of objects",
			doc:  []any{map[string]any{"id": float64(1), "title": "A"}, map[string]any{"id": float64(2)}},
			want: table{Headers: []string{"ID", "TITLE"}, Rows: [][]string{{"1", "A"}, {"2", ""}}},
		},
		{
			name: "list of scalars",
			doc:  []any{"A", true},
			want: table{Headers: []string{"VALUE"}, Rows: [][]string{{"A"}, {"true"}}},
		},
		{
			name: "object",
			doc:  map[string]any{"b": float64(2), "a": []any{"x"}},
			want: table{Headers: []string{"KEY", "VALUE"}, Rows: [][]string{{"a", `["x"]`}, {"b", "2"}}},
		},
		{
			name: "scalar",
			doc:  float64(3.5),
			want: table{Headers: []string{"VALUE"}, Rows: [][]string{{"3.5"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, genericTable(tt.doc))
		})
	}
}
