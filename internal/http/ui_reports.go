package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/target/crms-console/internal/domain/model"
)

func reportsMeta() PageMeta { return PageMeta{Title: "Crime Reports", CurrentPage: PageReports} }

func reportFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit Report", CurrentPage: PageReport}
	}
	return PageMeta{Title: "New Report", CurrentPage: PageReport}
}

// listFilter reads the search box (?q=) and status selector (?status=).
func listFilter(r *http.Request) (string, string) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status == "" {
		status = model.StatusAll
	}
	return q, status
}

// Reports lists crime reports filtered by search and status.
// GET /reports.
func (h *UIHandlers) Reports(w http.ResponseWriter, r *http.Request) {
	q, status := listFilter(r)
	h.Page(w, r, PageSpec{
		Meta: reportsMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			reports, err := services(r).Reports.List(ctx)
			if err != nil {
				return err
			}
			data["Reports"] = model.FilterReports(reports, q, status)
			data["Total"] = len(reports)
			data["Query"] = q
			data["StatusFilter"] = status
			return nil
		},
	})
}

// NewReport renders an empty report form.
// GET /reports/new.
func (h *UIHandlers) NewReport(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, reportFormMeta(FormModeCreate)).
		With("Mode", string(FormModeCreate)).
		With("Form", model.ReportInput{Status: model.StatusOpen}).
		Build()
	h.render(w, r, data)
}

// EditReport renders the form filled with an existing report.
// GET /reports/{id}/edit.
func (h *UIHandlers) EditReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.Page(w, r, PageSpec{
		Meta: reportFormMeta(FormModeEdit),
		Fetch: func(ctx context.Context, data map[string]any) error {
			report, err := services(r).Reports.Get(ctx, id)
			if err != nil {
				return err
			}
			in := model.ReportInput{
				Title:       report.Title,
				Description: report.Description,
				Location:    report.Location,
				Latitude:    report.Latitude,
				Longitude:   report.Longitude,
				Status:      report.Status,
			}
			if report.Category != nil {
				in.CategoryID = report.Category.ID
			}
			data["Mode"] = string(FormModeEdit)
			data["ID"] = id
			data["Form"] = in
			return nil
		},
	})
}

// CreateReport files a new report on behalf of the current user.
// POST /reports.
func (h *UIHandlers) CreateReport(w http.ResponseWriter, r *http.Request) {
	in, errs := parseReportForm(r)
	h.submitForm(w, r, FormSubmission{
		Meta:   reportFormMeta(FormModeCreate),
		Mode:   FormModeCreate,
		Form:   in,
		Errors: errs,
		Save: func(ctx context.Context) error {
			if me, ok := h.currentUser(r); ok {
				in.ReportedByID = me.ID
			}
			_, err := services(r).Reports.Create(ctx, in)
			return err
		},
		Redirect: "/reports",
	})
}

// UpdateReport saves changes to an existing report.
// POST /reports/{id}.
func (h *UIHandlers) UpdateReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	in, errs := parseReportForm(r)
	h.submitForm(w, r, FormSubmission{
		Meta:   reportFormMeta(FormModeEdit),
		Mode:   FormModeEdit,
		ID:     id,
		Form:   in,
		Errors: errs,
		Save: func(ctx context.Context) error {
			_, err := services(r).Reports.Update(ctx, id, in)
			return err
		},
		Redirect: "/reports",
	})
}

// DeleteReport removes a report.
// POST /reports/{id}/delete.
func (h *UIHandlers) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.runRowAction(w, r, RowAction{
		Meta: reportsMeta(),
		Run: func(ctx context.Context) error {
			return services(r).Reports.Delete(ctx, id)
		},
		Redirect: "/reports",
	})
}

// currentUser resolves the session's user record. Failures are logged and
// reported as not found; the report is then filed without a reporter.
func (h *UIHandlers) currentUser(r *http.Request) (model.User, bool) {
	me, _, err := resolveMe(r.Context(), r)
	if err != nil {
		h.logger().DebugContext(r.Context(), "could not resolve current user", "error", err)
		return model.User{}, false
	}
	return me, true
}
