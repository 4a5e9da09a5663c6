package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/target/crms-console/internal/domain/model"
)

func casesMeta() PageMeta { return PageMeta{Title: "Case Management", CurrentPage: PageCases} }

func caseFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit Case", CurrentPage: PageCase}
	}
	return PageMeta{Title: "New Case", CurrentPage: PageCase}
}

// Cases lists cases filtered by search and status.
// GET /cases.
func (h *UIHandlers) Cases(w http.ResponseWriter, r *http.Request) {
	q, status := listFilter(r)
	h.Page(w, r, PageSpec{
		Meta: casesMeta(),
		Fetch: func(ctx context.Context, data map[string]any) error {
			cases, err := services(r).Cases.List(ctx)
			if err != nil {
				return err
			}
			data["Cases"] = model.FilterCases(cases, q, status)
			data["Total"] = len(cases)
			data["Query"] = q
			data["StatusFilter"] = status
			return nil
		},
	})
}

// NewCase renders an empty case form. ?report= preselects the crime report.
// GET /cases/new.
func (h *UIHandlers) NewCase(w http.ResponseWriter, r *http.Request) {
	in := model.CaseInput{Status: model.StatusOpen}
	if id, err := strconv.ParseInt(r.URL.Query().Get("report"), 10, 64); err == nil && id > 0 {
		in.CrimeReportID = id
	}
	data := NewTemplateData(r, caseFormMeta(FormModeCreate)).
		With("Mode", string(FormModeCreate)).
		With("Form", in).
		Build()
	h.render(w, r, data)
}

// EditCase renders the form filled with an existing case.
// GET /cases/{id}/edit.
func (h *UIHandlers) EditCase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.Page(w, r, PageSpec{
		Meta: caseFormMeta(FormModeEdit),
		Fetch: func(ctx context.Context, data map[string]any) error {
			c, err := services(r).Cases.Get(ctx, id)
			if err != nil {
				return err
			}
			in := model.CaseInput{Status: c.Status, Notes: c.Notes}
			if c.CrimeReport != nil {
				in.CrimeReportID = c.CrimeReport.ID
			}
			if c.AssignedTo != nil {
				in.AssignedToID = c.AssignedTo.ID
			}
			data["Mode"] = string(FormModeEdit)
			data["ID"] = id
			data["Form"] = in
			return nil
		},
	})
}

// CreateCase opens a case.
// POST /cases.
func (h *UIHandlers) CreateCase(w http.ResponseWriter, r *http.Request) {
	in, errs := parseCaseForm(r)
	h.submitForm(w, r, FormSubmission{
		Meta:   caseFormMeta(FormModeCreate),
		Mode:   FormModeCreate,
		Form:   in,
		Errors: errs,
		Save: func(ctx context.Context) error {
			_, err := services(r).Cases.Create(ctx, in)
			return err
		},
		Redirect: "/cases",
	})
}

// UpdateCase saves changes to a case.
// POST /cases/{id}.
func (h *UIHandlers) UpdateCase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	in, errs := parseCaseForm(r)
	h.submitForm(w, r, FormSubmission{
		Meta:   caseFormMeta(FormModeEdit),
		Mode:   FormModeEdit,
		ID:     id,
		Form:   in,
		Errors: errs,
		Save: func(ctx context.Context) error {
			_, err := services(r).Cases.Update(ctx, id, in)
			return err
		},
		Redirect: "/cases",
	})
}

// CloseCase closes a case.
// POST /cases/{id}/close.
func (h *UIHandlers) CloseCase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.runRowAction(w, r, RowAction{
		Meta: casesMeta(),
		Run: func(ctx context.Context) error {
			_, err := services(r).Cases.Close(ctx, id)
			return err
		},
		Redirect: "/cases",
	})
}

// DeleteCase removes a case.
// POST /cases/{id}/delete.
func (h *UIHandlers) DeleteCase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.runRowAction(w, r, RowAction{
		Meta: casesMeta(),
		Run: func(ctx context.Context) error {
			return services(r).Cases.Delete(ctx, id)
		},
		Redirect: "/cases",
	})
}
