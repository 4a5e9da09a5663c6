//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/crms-console/internal/domain/auth"
)

func TestTimestamp_UnmarshalLayouts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"local date-time", `"2024-05-01T10:15:30"`, time.Date(2024, 5, 1, 10, 15, 30, 0, time.UTC)},
		{"fractional", `"2024-05-01T10:15:30.123456"`, time.Date(2024, 5, 1, 10, 15, 30, 123456000, time.UTC)},
		{"rfc3339", `"2024-05-01T10:15:30Z"`, time.Date(2024, 5, 1, 10, 15, 30, 0, time.UTC)},
		{"null", `null`, time.Time{}},
		{"empty", `""`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`42`), &ts))
}

func TestTimestamp_Marshal(t *testing.T) {
	b, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.JSONEq(t, `null`, string(b))

	b, err = json.Marshal(Timestamp{Time: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)})
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-01-02T03:04:05"`, string(b))
}

func TestCase_DecodesBackendPayload(t *testing.T) {
	payload := `{
		"id": 7,
		"crimeReport": {"id": 3, "title": "Burglary on Main St", "status": "Open"},
		"assignedTo": {"id": 2, "username": "alice", "fullName": "Alice Smith", "role": {"id": 2, "name": "OFFICER"}},
		"status": "Under Investigation",
		"openedAt": "2024-03-01T09:00:00",
		"closedAt": null,
		"notes": "witness pending"
	}`
	var c Case
	require.NoError(t, json.Unmarshal([]byte(payload), &c))
	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, "Burglary on Main St", c.ReportTitle())
	assert.Equal(t, "Alice Smith", c.AssigneeName())
	assert.Equal(t, auth.RoleOfficer, c.AssignedTo.RoleName())
	assert.True(t, c.ClosedAt.IsZero())
	assert.Equal(t, "info", StatusColor(c.Status))
}

func TestFilterReports(t *testing.T) {
	reports := []CrimeReport{
		{ID: 1, Title: "Stolen bike", Location: "Park Ave", Status: StatusOpen},
		{ID: 2, Title: "Vandalism", Description: "Graffiti on the BIKE shed", Status: StatusClosed},
		{ID: 3, Title: "Assault", Location: "Harbor", Status: StatusUnderInvestigation},
	}

	ids := func(rs []CrimeReport) []int64 {
		out := []int64{}
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []int64{1, 2, 3}, ids(FilterReports(reports, "", StatusAll)))
	assert.Equal(t, []int64{1, 2}, ids(FilterReports(reports, "bike", "")))
	assert.Equal(t, []int64{2}, ids(FilterReports(reports, "bike", StatusClosed)))
	assert.Equal(t, []int64{3}, ids(FilterReports(reports, "harbor", "all")))
	assert.Empty(t, FilterReports(reports, "nothing", ""))
}

func TestFilterCases(t *testing.T) {
	cases := []Case{
		{ID: 1, CrimeReport: &CrimeReport{Title: "Stolen bike"}, Status: StatusOpen},
		{ID: 2, Notes: "bike recovered", Status: StatusClosed},
		{ID: 3, Status: StatusOpen},
	}
	got := FilterCases(cases, "BIKE", StatusOpen)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Len(t, FilterCases(cases, "", StatusOpen), 2)
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "warning", StatusColor("Open"))
	assert.Equal(t, "info", StatusColor("Under Investigation"))
	assert.Equal(t, "success", StatusColor("Closed"))
	assert.Equal(t, "success", StatusColor("Resolved"))
	assert.Equal(t, "default", StatusColor("Archived"))
	assert.Equal(t, "default", StatusColor(""))
}

func TestMessage_Endpoints(t *testing.T) {
	embedded := Message{Sender: &User{ID: 4, Username: "bob"}, Receiver: &User{ID: 9}}
	assert.Equal(t, int64(4), embedded.From())
	assert.Equal(t, int64(9), embedded.To())
	assert.Equal(t, "bob", embedded.SenderName())

	flat := Message{SenderID: 5, ReceiverID: 6}
	assert.Equal(t, int64(5), flat.From())
	assert.Equal(t, int64(6), flat.To())
	assert.Empty(t, flat.SenderName())
}

func TestPercentAndBreakdown(t *testing.T) {
	assert.InDelta(t, 0.0, Percent(3, 0), 1e-9)
	assert.InDelta(t, 25.0, Percent(1, 4), 1e-9)

	rows := Breakdown(map[string]int64{"Theft": 3, "Assault": 1, "Arson": 1}, 5)
	require.Len(t, rows, 3)
	assert.Equal(t, "Theft", rows[0].Label)
	assert.InDelta(t, 60.0, rows[0].Percent, 1e-9)
	assert.Equal(t, "Arson", rows[1].Label)
	assert.Equal(t, "Assault", rows[2].Label)
}

func TestFindUserByUsername(t *testing.T) {
	users := []User{{ID: 1, Username: "admin"}, {ID: 2, Username: "alice"}}
	u, ok := FindUserByUsername(users, "alice")
	require.True(t, ok)
	assert.Equal(t, int64(2), u.ID)
	_, ok = FindUserByUsername(users, "carol")
	assert.False(t, ok)
	assert.Equal(t, auth.RoleNone, User{}.RoleName())
}
