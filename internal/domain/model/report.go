//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "strings"

// CrimeCategory classifies a crime report.
type CrimeCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CrimeReport is a filed report as returned by /reports.
type CrimeReport struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    *CrimeCategory `json:"category,omitempty"`
	Location    string         `json:"location"`
	Latitude    *float64       `json:"latitude,omitempty"`
	Longitude   *float64       `json:"longitude,omitempty"`
	ReportedBy  *User          `json:"reportedBy,omitempty"`
	Status      string         `json:"status"`
	CreatedAt   Timestamp      `json:"createdAt"`
	UpdatedAt   Timestamp      `json:"updatedAt"`
}

// CategoryName returns the category's name or an empty string.
func (r CrimeReport) CategoryName() string {
	if r.Category == nil {
		return ""
	}
	return r.Category.Name
}

// Matches reports whether the lowercase term occurs in the title, location or description.
func (r CrimeReport) Matches(term string) bool {
	return containsFold(term, r.Title, r.Location, r.Description)
}

// ReportInput is the create/update payload for a crime report.
type ReportInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	CategoryID   int64    `json:"categoryId,omitempty"`
	Location     string   `json:"location"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	ReportedByID int64    `json:"reportedById,omitempty"`
	Status       string   `json:"status"`
}

// FilterReports applies the list page's search box and status selector.
// An empty status or "all" keeps every status.
func FilterReports(reports []CrimeReport, query, status string) []CrimeReport {
	out := make([]CrimeReport, 0, len(reports))
	for _, r := range reports {
		if !statusMatches(r.Status, status) || !r.Matches(query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func containsFold(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
