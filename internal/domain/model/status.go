//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "strings"

// Status values used by reports and cases.
const (
	StatusOpen               = "Open"
	StatusUnderInvestigation = "Under Investigation"
	StatusInProgress         = "In Progress"
	StatusClosed             = "Closed"
	StatusResolved           = "Resolved"

	// StatusAll is the filter value that disables status filtering.
	StatusAll = "all"
)

// StatusColor maps a record status to the badge colour class used in tables.
func StatusColor(status string) string {
	switch status {
	case StatusOpen:
		return "warning"
	case StatusUnderInvestigation, StatusInProgress:
		return "info"
	case StatusClosed, StatusResolved:
		return "success"
	default:
		return "default"
	}
}

// RecordStatuses lists the statuses offered by the report and case forms.
func RecordStatuses() []string {
	return []string{StatusOpen, StatusUnderInvestigation, StatusClosed}
}

func statusMatches(actual, filter string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || filter == StatusAll || actual == filter
}
