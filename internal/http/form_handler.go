package httpx

import (
	"context"
	"net/http"
)

const errMsgFixBelow = "Please fix the errors below."

// FormSubmission describes one create/update post.
type FormSubmission struct {
	Meta     PageMeta
	Mode     FormMode
	ID       int64
	Form     any               // submitted values, re-rendered on failure
	Errors   map[string]string // required-field errors from parsing
	Save     func(ctx context.Context) error
	Redirect string
}

// submitForm renders field errors, saves, and redirects on success. A failed save
// keeps the submitted values on screen.
func (h *UIHandlers) submitForm(w http.ResponseWriter, r *http.Request, s FormSubmission) {
	b := NewTemplateData(r, s.Meta).
		With("Mode", string(s.Mode)).
		With("ID", s.ID).
		With("Form", s.Form)

	if len(s.Errors) > 0 {
		h.render(w, r, b.WithFieldErrors(s.Errors).WithError(errMsgFixBelow).Build())
		return
	}
	if err := s.Save(r.Context()); err != nil {
		h.presentErrorWith(w, r, err, b)
		return
	}
	redirectAfterPost(w, r, s.Redirect)
}

// RowAction is a button-style post on a list row (close, delete, mark read).
type RowAction struct {
	Meta     PageMeta
	Run      func(ctx context.Context) error
	Redirect string
}

// runRowAction performs a and returns to the list page.
func (h *UIHandlers) runRowAction(w http.ResponseWriter, r *http.Request, a RowAction) {
	if err := a.Run(r.Context()); err != nil {
		h.presentError(w, r, err, a.Meta)
		return
	}
	redirectAfterPost(w, r, a.Redirect)
}
