package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/crms-console/internal/domain/auth"
	"github.com/target/crms-console/internal/domain/model"
	"github.com/target/crms-console/internal/gateway"
	"github.com/target/crms-console/internal/testutil"
)

func newServiceSet(t *testing.T) (*testutil.FakeAPI, *Set) {
	t.Helper()
	f := newAuthFixture(t)
	require.NoError(t, f.sessions.Save(context.Background(),
		auth.Session{Username: "alice", Role: auth.RoleAdmin, Token: "abc123"}))
	return f.api, f.set
}

func TestResourcePath(t *testing.T) {
	assert.Equal(t, "/cases/7/close", resourcePath("cases", int64(7), "close"))
	assert.Equal(t, "/reports/status/Under%20Investigation", resourcePath("reports", "status", "Under Investigation"))
	assert.Equal(t, "/users/role/a%2Fb", resourcePath("users", "role", "a/b"))
}

func TestCaseService_ListAttachesToken(t *testing.T) {
	api, set := newServiceSet(t)
	api.Handle("GET /cases", testutil.JSON(http.StatusOK, []model.Case{{ID: 1, Status: model.StatusOpen}}))

	cases, err := set.Cases.List(context.Background())
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, int64(1), cases[0].ID)

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer abc123", reqs[0].Authorization)
}

func TestCaseService_Close(t *testing.T) {
	api, set := newServiceSet(t)
	api.Handle("PUT /cases/{id}/close", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", r.PathValue("id"))
		testutil.JSON(http.StatusOK, model.Case{ID: 42, Status: model.StatusClosed})(w, r)
	})

	c, err := set.Cases.Close(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, model.StatusClosed, c.Status)
}

func TestServices_ErrorMessagesAndKinds(t *testing.T) {
	api, set := newServiceSet(t)
	api.Handle("GET /cases", testutil.Status(http.StatusUnauthorized, ""))
	api.Handle("GET /cases/assigned/{id}", testutil.JSON(http.StatusInternalServerError, map[string]string{"message": "boom"}))
	api.Handle("GET /messages/conversation/{a}/{b}", testutil.Status(http.StatusNotFound, ""))
	ctx := context.Background()

	_, err := set.Cases.List(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)
	assert.Equal(t, "Failed to fetch cases", UserMessage(err))

	_, err = set.Cases.ListByAssignee(ctx, 3)
	require.Error(t, err)
	rf, ok := gateway.AsRequestFailed(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, rf.Status)
	assert.Equal(t, "boom", rf.Message)
	assert.Equal(t, "Failed to fetch cases by assigned user", UserMessage(err))

	_, err = set.Messages.Conversation(ctx, 1, 2)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch conversation", UserMessage(err))
	assert.Equal(t, http.StatusNotFound, gateway.StatusOf(err))
}

func TestMessageService_CreateDefaultsSubject(t *testing.T) {
	api, set := newServiceSet(t)
	api.Handle("POST /messages", func(w http.ResponseWriter, r *http.Request) {
		var in model.MessageInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		testutil.JSON(http.StatusOK, model.Message{ID: 9, Subject: in.Subject, Content: in.Content})(w, r)
	})

	msg, err := set.Messages.Create(context.Background(), model.MessageInput{SenderID: 1, ReceiverID: 2, Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSubject, msg.Subject)
}

func TestUserService_DeleteAndRoleFilter(t *testing.T) {
	api, set := newServiceSet(t)
	api.Handle("DELETE /users/{id}", testutil.Status(http.StatusNoContent, ""))
	api.Handle("GET /users/role/{role}", testutil.JSON(http.StatusOK, []model.User{{ID: 1, Username: "ana"}}))
	ctx := context.Background()

	require.NoError(t, set.Users.Delete(ctx, 5))
	users, err := set.Users.ListByRole(ctx, "ANALYST")
	require.NoError(t, err)
	require.Len(t, users, 1)

	reqs := api.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/users/5", reqs[0].Path)
	assert.Equal(t, "/users/role/ANALYST", reqs[1].Path)
}

func TestServices_FilteredListPaths(t *testing.T) {
	api, set := newServiceSet(t)
	api.Handle("GET /reports/category/{id}", testutil.JSON(http.StatusOK, []model.CrimeReport{{ID: 1}}))
	api.Handle("GET /reports/reporter/{id}", testutil.JSON(http.StatusOK, []model.CrimeReport{}))
	api.Handle("GET /messages/sender/{id}", testutil.JSON(http.StatusOK, []model.Message{{ID: 2}}))
	api.Handle("GET /cases/assigned/{id}", testutil.JSON(http.StatusOK, []model.Case{{ID: 3}}))
	ctx := context.Background()

	reports, err := set.Reports.ListByCategory(ctx, 4)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	_, err = set.Reports.ListByReporter(ctx, 5)
	require.NoError(t, err)
	msgs, err := set.Messages.ListBySender(ctx, 6)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	cases, err := set.Cases.ListByAssignee(ctx, 7)
	require.NoError(t, err)
	require.Len(t, cases, 1)

	reqs := api.Requests()
	require.Len(t, reqs, 4)
	for i, want := range []string{"/reports/category/4", "/reports/reporter/5", "/messages/sender/6", "/cases/assigned/7"} {
		assert.Equal(t, http.MethodGet, reqs[i].Method)
		assert.Equal(t, want, reqs[i].Path)
		assert.Equal(t, "Bearer abc123", reqs[i].Authorization)
	}
}

func TestReportService_ListByStatusEscapes(t *testing.T) {
	api, set := newServiceSet(t)
	api.Handle("GET /reports/status/{status}", testutil.JSON(http.StatusOK, []model.CrimeReport{}))

	_, err := set.Reports.ListByStatus(context.Background(), model.StatusUnderInvestigation)
	require.NoError(t, err)
	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/reports/status/Under%20Investigation", reqs[0].Path)
}

func TestAnalyticsService_Overview(t *testing.T) {
	api, set := newServiceSet(t)
	api.Handle("GET /analytics/dashboard", testutil.JSON(http.StatusOK, map[string]any{"totalReports": 10}))
	api.Handle("GET /analytics/trends", testutil.JSON(http.StatusOK, map[string]any{}))
	api.Handle("GET /analytics/case-stats", testutil.JSON(http.StatusOK, map[string]any{"totalCases": 4}))

	ov, err := set.Analytics.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), ov.Dashboard.TotalReports)
	assert.Equal(t, int64(4), ov.CaseStats.TotalCases)
	assert.Len(t, api.Requests(), 3)
}

func TestAnalyticsService_OverviewFirstFailure(t *testing.T) {
	api, set := newServiceSet(t)
	api.Handle("GET /analytics/dashboard", testutil.JSON(http.StatusOK, map[string]any{}))
	api.Handle("GET /analytics/trends", testutil.Status(http.StatusForbidden, ""))
	api.Handle("GET /analytics/case-stats", testutil.JSON(http.StatusOK, map[string]any{}))

	_, err := set.Analytics.Overview(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch crime trends", UserMessage(err))
}

func TestSummarizeUsers(t *testing.T) {
	users := []model.User{
		{ID: 1, IsActive: true, Role: &model.RoleRef{Name: "ADMIN"}},
		{ID: 2, IsActive: true, Role: &model.RoleRef{Name: "OFFICER"}},
		{ID: 3, IsActive: false, Role: &model.RoleRef{Name: "OFFICER"}},
		{ID: 4, IsActive: true, Role: &model.RoleRef{Name: "ANALYST"}},
		{ID: 5, IsActive: true},
	}
	assert.Equal(t, UserStats{Total: 5, Active: 4, Admins: 1, Officers: 2, Analysts: 1}, SummarizeUsers(users))
}

func TestCountUnread(t *testing.T) {
	msgs := []model.Message{
		{ID: 1, SenderID: 2, ReceiverID: 1},
		{ID: 2, SenderID: 2, ReceiverID: 1, IsRead: true},
		{ID: 3, SenderID: 3, ReceiverID: 1},
		{ID: 4, SenderID: 1, ReceiverID: 2},
	}
	assert.Equal(t, 2, CountUnread(msgs, 1))
	assert.Equal(t, 1, CountUnreadFrom(msgs, 1, 3))
	assert.Equal(t, 0, CountUnread(nil, 1))
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, "Something went wrong", UserMessage(assert.AnError))
}
