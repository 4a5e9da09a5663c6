package httpx

import "net/http"

// Dashboard greets the user and lists the sections their role may open.
// GET /dashboard.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{Meta: PageMeta{Title: "Dashboard", CurrentPage: PageDashboard}})
}
