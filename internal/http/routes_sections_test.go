package httpx

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/crms-console/internal/domain/auth"
	"github.com/target/crms-console/internal/domain/model"
	"github.com/target/crms-console/internal/testutil"
)

func sampleCases() []model.Case {
	return []model.Case{
		{ID: 1, Status: model.StatusOpen, Notes: "Break-in on Elm St", CrimeReport: &model.CrimeReport{ID: 10, Title: "Burglary"}},
		{ID: 2, Status: model.StatusClosed, Notes: "Recovered vehicle", CrimeReport: &model.CrimeReport{ID: 11, Title: "Car theft"}},
	}
}

func TestSections_AnonymousRedirectsToLogin(t *testing.T) {
	c := newConsoleHarness(t)

	for _, path := range []string{"/dashboard", "/reports", "/cases", "/analytics", "/messages", "/admin"} {
		rec := c.get(path)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}

	rec := c.htmxGet("/cases")
	assert.Equal(t, "/login", rec.Header().Get("Hx-Redirect"))
	assert.Empty(t, c.API.Requests())
}

func TestSections_RoleGate(t *testing.T) {
	tests := []struct {
		role    auth.Role
		path    string
		allowed bool
	}{
		{auth.RoleOfficer, "/analytics", false},
		{auth.RoleOfficer, "/admin", false},
		{auth.RoleAnalyst, "/admin", false},
		{auth.RoleAnalyst, "/analytics", true},
		{auth.RoleAdmin, "/admin", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+tt.path, func(t *testing.T) {
			c := newConsoleHarness(t)
			c.API.Handle("GET /analytics/dashboard", testutil.JSON(http.StatusOK, model.DashboardData{}))
			c.API.Handle("GET /analytics/trends", testutil.JSON(http.StatusOK, model.CrimeTrends{}))
			c.API.Handle("GET /analytics/case-stats", testutil.JSON(http.StatusOK, model.CaseStats{}))
			c.API.Handle("GET /users", testutil.JSON(http.StatusOK, []model.User{}))
			c.signIn(tt.role)

			rec := c.get(tt.path)
			if tt.allowed {
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Contains(t, rec.Body.String(), "Access denied")
			assert.Empty(t, c.API.Requests(), "forbidden sections never reach the API")
		})
	}
}

func TestSections_ForbiddenHTMXKeepsDOM(t *testing.T) {
	c := newConsoleHarness(t)
	c.signIn(auth.RoleOfficer)

	rec := c.htmxGet("/analytics")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("Hx-Reswap"))
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), "showToast")
}

func TestActions_RoleGate(t *testing.T) {
	c := newConsoleHarness(t)
	c.signIn(auth.RoleAnalyst)

	rec := c.post("/reports", url.Values{"title": {"x"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.post("/cases/1/delete", url.Values{})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, c.API.Requests())
}

func TestCases_HTMXUnauthorizedExpiresSession(t *testing.T) {
	c := newConsoleHarness(t)
	c.API.Handle("GET /cases", testutil.Status(http.StatusUnauthorized, ""))
	c.signIn(auth.RoleOfficer)

	rec := c.htmxGet("/cases")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("Hx-Reswap"))
	assert.Equal(t, "/login", rec.Header().Get("Hx-Redirect"))
	assert.Contains(t, rec.Header().Get("Hx-Trigger"), "showToast")
	assert.Empty(t, rec.Body.String(), "no rows are rendered")

	_, ok := c.session()
	assert.False(t, ok, "session is cleared after a 401")

	reqs := c.API.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer abc123", reqs[0].Authorization)
}

func TestCases_FullPageUnauthorizedRedirects(t *testing.T) {
	c := newConsoleHarness(t)
	c.API.Handle("GET /cases", testutil.Status(http.StatusUnauthorized, ""))
	c.signIn(auth.RoleOfficer)

	rec := c.get("/cases")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	_, ok := c.session()
	assert.False(t, ok)
}

func TestCases_ServerErrorShowsBanner(t *testing.T) {
	c := newConsoleHarness(t)
	c.API.Handle("GET /cases", testutil.JSON(http.StatusInternalServerError, map[string]string{"message": "boom"}))
	c.signIn(auth.RoleOfficer)

	rec := c.get("/cases")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Failed to fetch cases")
	assert.NotContains(t, body, "cases-table")

	_, ok := c.session()
	assert.True(t, ok, "non-auth failures keep the session")
}

func TestCases_NetworkErrorIsBadGateway(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	base := api.BaseURL()
	api.Server.Close()
	c := newConsoleHarnessAt(t, api, base)
	c.signIn(auth.RoleOfficer)

	rec := c.get("/cases")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch cases")
}

func TestCases_ListFiltersByStatusAndQuery(t *testing.T) {
	c := newConsoleHarness(t)
	c.API.Handle("GET /cases", testutil.JSON(http.StatusOK, sampleCases()))
	c.signIn(auth.RoleOfficer)

	rec := c.get("/cases?status=Open")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Burglary")
	assert.NotContains(t, rec.Body.String(), "Car theft")
	assert.Contains(t, rec.Body.String(), "Showing 1 of 2 cases")

	rec = c.htmxGet("/cases?q=vehicle")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Car theft")
	assert.NotContains(t, rec.Body.String(), "<html", "htmx requests get the content fragment")
}

func TestCases_CloseCallsAPI(t *testing.T) {
	c := newConsoleHarness(t)
	c.API.Handle("PUT /cases/{id}/close", testutil.JSON(http.StatusOK, model.Case{ID: 7, Status: model.StatusClosed}))
	c.signIn(auth.RoleOfficer)

	rec := c.post("/cases/7/close", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cases", rec.Header().Get("Location"))

	reqs := c.API.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/cases/7/close", reqs[0].Path)
}

func TestCases_CreateRequiresReport(t *testing.T) {
	c := newConsoleHarness(t)
	c.signIn(auth.RoleOfficer)

	rec := c.post("/cases", url.Values{"notes": {"keep me"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "This field is required")
	assert.Contains(t, body, "keep me", "submitted values are re-rendered")
	assert.Empty(t, c.API.Requests())
}

func TestCases_InvalidIDIsNotFound(t *testing.T) {
	c := newConsoleHarness(t)
	c.signIn(auth.RoleOfficer)

	rec := c.get("/cases/abc/edit")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotFound_RendersPage(t *testing.T) {
	c := newConsoleHarness(t)

	rec := c.get("/no-such-page")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}
