package httpx

import (
	"net/http"
	"strings"
)

// HTMXResponse provides a fluent API for building HTMX responses.
type HTMXResponse struct {
	w http.ResponseWriter
}

// HTMX creates a new HTMXResponse for fluent response building.
func HTMX(w http.ResponseWriter) *HTMXResponse {
	return &HTMXResponse{w: w}
}

// Redirect sets HX-Redirect and writes 204. The handler must return afterwards.
func (h *HTMXResponse) Redirect(url string) {
	SetHXRedirect(h.w, url)
	h.w.WriteHeader(http.StatusNoContent)
}

// Trigger triggers a client-side event after swap with optional payload.
func (h *HTMXResponse) Trigger(event string, payload any) *HTMXResponse {
	SetHXTrigger(h.w, event, payload)
	return h
}

// Toast triggers the layout's showToast listener.
func (h *HTMXResponse) Toast(message, kind string) *HTMXResponse {
	if strings.TrimSpace(message) == "" {
		return h
	}
	return h.Trigger("showToast", map[string]any{"message": message, "type": kind})
}

// KeepDOM tells htmx not to swap, so previously rendered content stays.
func (h *HTMXResponse) KeepDOM() *HTMXResponse {
	SetHXReswap(h.w, "none")
	return h
}

// Done writes the status with an empty body.
func (h *HTMXResponse) Done(status int) {
	h.w.WriteHeader(status)
}
