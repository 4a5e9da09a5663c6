//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// Case is an investigation opened from a crime report.
type Case struct {
	ID          int64        `json:"id"`
	CrimeReport *CrimeReport `json:"crimeReport,omitempty"`
	AssignedTo  *User        `json:"assignedTo,omitempty"`
	Status      string       `json:"status"`
	OpenedAt    Timestamp    `json:"openedAt"`
	ClosedAt    Timestamp    `json:"closedAt"`
	Notes       string       `json:"notes,omitempty"`
}

// ReportTitle returns the linked report's title or an empty string.
func (c Case) ReportTitle() string {
	if c.CrimeReport == nil {
		return ""
	}
	return c.CrimeReport.Title
}

// AssigneeName returns the assigned officer's display name or an empty string.
func (c Case) AssigneeName() string {
	if c.AssignedTo == nil {
		return ""
	}
	return c.AssignedTo.DisplayName()
}

// Matches reports whether term occurs in the report title or the notes.
func (c Case) Matches(term string) bool {
	return containsFold(term, c.ReportTitle(), c.Notes)
}

// CaseInput is the create/update payload for a case.
type CaseInput struct {
	CrimeReportID int64  `json:"crimeReportId"`
	AssignedToID  int64  `json:"assignedToId,omitempty"`
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`
}

// FilterCases applies the case page's search box and status selector.
func FilterCases(cases []Case, query, status string) []Case {
	out := make([]Case, 0, len(cases))
	for _, c := range cases {
		if !statusMatches(c.Status, status) || !c.Matches(query) {
			continue
		}
		out = append(out, c)
	}
	return out
}
