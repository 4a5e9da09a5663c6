package httpx

import (
	"context"
	"net/http"
	"sort"

	"github.com/target/crms-console/internal/domain/model"
)

// Analytics shows the dashboard counters, crime trends and case resolution stats.
// GET /analytics.
func (h *UIHandlers) Analytics(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Analytics", CurrentPage: PageAnalytics},
		Fetch: func(ctx context.Context, data map[string]any) error {
			ov, err := services(r).Analytics.Overview(ctx)
			if err != nil {
				return err
			}
			data["Dashboard"] = ov.Dashboard
			data["CaseStats"] = ov.CaseStats
			data["Categories"] = model.Breakdown(ov.Trends.CategoryBreakdown, ov.Dashboard.TotalReports)

			monthly := model.Breakdown(ov.Trends.MonthlyTrends, ov.Dashboard.TotalReports)
			sort.SliceStable(monthly, func(i, j int) bool { return monthOrder(monthly[i].Label) < monthOrder(monthly[j].Label) })
			data["Monthly"] = monthly
			return nil
		},
	})
}

// monthOrder sorts the backend's upper-case month names (JANUARY...) chronologically;
// unknown labels sort last.
func monthOrder(label string) int {
	months := [...]string{
		"JANUARY", "FEBRUARY", "MARCH", "APRIL", "MAY", "JUNE",
		"JULY", "AUGUST", "SEPTEMBER", "OCTOBER", "NOVEMBER", "DECEMBER",
	}
	for i, m := range months {
		if m == label {
			return i
		}
	}
	return len(months)
}
