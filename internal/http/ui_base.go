package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/target/crms-console/internal/service"
)

// UIHandlers serves browser-facing routes. Services are taken from the request scope.
type UIHandlers struct {
	T      *TemplateRenderer
	Logger *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// services returns the request's service set. BrowserContext guarantees its presence.
func services(r *http.Request) *service.Set {
	scope, ok := ScopeFrom(r.Context())
	if !ok {
		panic("httpx: request scope missing; BrowserContext middleware not installed")
	}
	return scope.Services
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, runs the fetch and renders. A failed fetch is presented
// without rendering partial data.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			h.presentError(w, r, err, spec.Meta)
			return
		}
	}
	h.render(w, r, data)
}

// render writes the content fragment for htmx requests and the full layout otherwise.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, data map[string]any) {
	var err error
	if WantsPartial(r) {
		err = h.T.RenderPartial(w, data)
	} else {
		err = h.T.RenderFull(w, data)
	}
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// forbidden renders the access-denied page (403).
func (h *UIHandlers) forbidden(w http.ResponseWriter, r *http.Request) {
	const msg = "You do not have access to this section"
	if IsHTMX(r) {
		HTMX(w).KeepDOM().Toast(msg, "error").Done(http.StatusForbidden)
		return
	}
	data := NewTemplateData(r, PageMeta{Title: "Access denied", CurrentPage: PageForbidden}).WithError(msg).Build()
	if err := h.T.RenderFullStatus(w, http.StatusForbidden, data); err != nil {
		h.logger().ErrorContext(r.Context(), "render forbidden page", "error", err)
	}
}

// redirectAfterPost sends the browser back to a list page after a successful write.
func redirectAfterPost(w http.ResponseWriter, r *http.Request, path string) {
	if IsHTMX(r) {
		HTMX(w).Redirect(path)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// pathID parses the {id} wildcard. ok is false (and 404 written) when it is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}
