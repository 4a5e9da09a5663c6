//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "sort"

// DashboardData is the payload of /analytics/dashboard.
type DashboardData struct {
	TotalReports  int64 `json:"totalReports"`
	TotalCases    int64 `json:"totalCases"`
	TotalUsers    int64 `json:"totalUsers"`
	OpenReports   int64 `json:"openReports"`
	ClosedReports int64 `json:"closedReports"`
	OpenCases     int64 `json:"openCases"`
	ClosedCases   int64 `json:"closedCases"`
	// RecentReports counts reports filed in the last 30 days.
	RecentReports int64 `json:"recentReports"`
}

// CrimeTrends is the payload of /analytics/trends.
type CrimeTrends struct {
	CategoryBreakdown map[string]int64 `json:"categoryBreakdown"`
	MonthlyTrends     map[string]int64 `json:"monthlyTrends"`
}

// CaseStats is the payload of /analytics/case-stats.
type CaseStats struct {
	TotalCases        int64   `json:"totalCases"`
	ResolvedCases     int64   `json:"resolvedCases"`
	ResolutionRate    float64 `json:"resolutionRate"`
	AvgResolutionTime float64 `json:"avgResolutionTime"`
}

// CountEntry is one row of a breakdown table.
type CountEntry struct {
	Label   string
	Count   int64
	Percent float64
}

// Breakdown turns a count map into rows sorted by count (descending, then label),
// with each row's share of total.
func Breakdown(counts map[string]int64, total int64) []CountEntry {
	out := make([]CountEntry, 0, len(counts))
	for label, n := range counts {
		out = append(out, CountEntry{Label: label, Count: n, Percent: Percent(n, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Percent returns part/total*100, or 0 when total is not positive.
func Percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
