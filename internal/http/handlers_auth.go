package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/target/crms-console/internal/domain/auth"
	"github.com/target/crms-console/internal/service"
)

// AuthHandlers serves login, logout and the session status endpoint.
type AuthHandlers struct {
	UI     *UIHandlers
	Logger *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func loginMeta() PageMeta { return PageMeta{Title: "Sign in", CurrentPage: PageLogin} }

// Root sends the browser to the dashboard or the login page.
// GET /.
func (h *AuthHandlers) Root(w http.ResponseWriter, r *http.Request) {
	if _, ok := SessionFrom(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginPage renders the login form.
// GET /login.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := SessionFrom(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.UI.render(w, r, NewTemplateData(r, loginMeta()).Build())
}

// Login exchanges the submitted credentials for a session.
// POST /login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	errs := map[string]string{}
	if username == "" {
		errs["username"] = "Username is required"
	}
	if password == "" {
		errs["password"] = "Password is required"
	}
	b := NewTemplateData(r, loginMeta()).With("FormUsername", username)
	if len(errs) > 0 {
		h.UI.render(w, r, b.WithFieldErrors(errs).Build())
		return
	}

	sess, err := services(r).Auth.Login(r.Context(), username, password)
	if err != nil {
		h.logger().InfoContext(r.Context(), "login rejected", "username", username, "error", err)
		if IsHTMX(r) {
			HTMX(w).KeepDOM().Toast(service.UserMessage(err), "error").Done(http.StatusOK)
			return
		}
		h.UI.render(w, r, b.WithError(service.UserMessage(err)).Build())
		return
	}

	if scope, ok := ScopeFrom(r.Context()); ok {
		if err := scope.rotateContext(w, r, &sess); err != nil {
			h.logger().ErrorContext(r.Context(), "rotate browser context", "username", username, "error", err)
			h.UI.render(w, r, b.WithError("Login failed").Build())
			return
		}
	}
	redirectAfterPost(w, r, "/dashboard")
}

// Logout clears the session of this browser context and moves the browser to a
// new one. The API is not called.
// POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := services(r).Auth.Logout(r.Context()); err != nil {
		h.logger().WarnContext(r.Context(), "logout failed", "error", err)
	}
	if scope, ok := ScopeFrom(r.Context()); ok {
		if err := scope.rotateContext(w, r, nil); err != nil {
			h.logger().WarnContext(r.Context(), "rotate browser context", "error", err)
		}
	}
	redirectAfterPost(w, r, "/login")
}

type statusUser struct {
	Username string          `json:"username"`
	Role     domainauth.Role `json:"role"`
}

type statusResponse struct {
	Authenticated bool                 `json:"authenticated"`
	User          *statusUser          `json:"user,omitempty"`
	Sections      []domainauth.Section `json:"sections"`
}

// Status reports the session of this browser context as JSON.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Sections: []domainauth.Section{}}
	if sess, ok := SessionFrom(r.Context()); ok {
		resp.Authenticated = true
		resp.User = &statusUser{Username: sess.Username, Role: sess.Role}
		for _, info := range domainauth.Sections(sess.Role) {
			resp.Sections = append(resp.Sections, info.ID)
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}
