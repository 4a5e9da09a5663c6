package httpx

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"

	domainauth "github.com/target/crms-console/internal/domain/auth"
	"github.com/target/crms-console/internal/gateway"
	"github.com/target/crms-console/internal/session"
)

// RouterConfig holds everything the console router needs.
type RouterConfig struct {
	Sessions     *session.Provider
	Gateway      *gateway.Client
	CookieDomain string
	// TemplateFS and StaticFS are rooted at the template and static directories.
	// In dev mode both are read from disk instead, for hot reloading.
	TemplateFS fs.FS
	StaticFS   fs.FS
	IsDev      bool
	Logger     *slog.Logger
}

// NewRouter builds the console handler: static assets, auth routes and the
// role-gated section pages, wrapped in recovery, logging, browser context and CSRF.
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	if cfg.Sessions == nil || cfg.Gateway == nil {
		return nil, errors.New("router: Sessions and Gateway are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templateFS, staticFS := cfg.TemplateFS, cfg.StaticFS
	if cfg.IsDev {
		templateFS = os.DirFS(TemplatePathFromRoot)
		staticFS = os.DirFS(StaticPathFromRoot)
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{T: tr, Logger: logger}
	auth := &AuthHandlers{UI: ui, Logger: logger}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if staticFS != nil {
		mux.Handle("GET /static/", staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))
	}
	registerAuthRoutes(mux, auth)
	registerUIRoutes(mux, ui)

	mux.HandleFunc("/", ui.NotFound)

	var handler http.Handler = mux
	handler = CSRFProtection(cfg.CookieDomain)(handler)
	handler = BrowserContext(BrowserContextConfig{
		Sessions:     cfg.Sessions,
		Gateway:      cfg.Gateway,
		CookieDomain: cfg.CookieDomain,
		Logger:       logger,
	})(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler, nil
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.Handle("GET /dashboard", RequireSession(http.HandlerFunc(h.Dashboard)))

	reports := func(next http.HandlerFunc) http.Handler { return h.RequireSection(domainauth.SectionReports, next) }
	mux.Handle("GET /reports", reports(h.Reports))
	mux.Handle("GET /reports/new", reports(h.RequireAction(domainauth.ActionCreateReport, h.NewReport)))
	mux.Handle("POST /reports", reports(h.RequireAction(domainauth.ActionCreateReport, h.CreateReport)))
	mux.Handle("GET /reports/{id}/edit", reports(h.RequireAction(domainauth.ActionUpdateReport, h.EditReport)))
	mux.Handle("POST /reports/{id}", reports(h.RequireAction(domainauth.ActionUpdateReport, h.UpdateReport)))
	mux.Handle("POST /reports/{id}/delete", reports(h.RequireAction(domainauth.ActionDeleteReport, h.DeleteReport)))

	cases := func(next http.HandlerFunc) http.Handler { return h.RequireSection(domainauth.SectionCases, next) }
	mux.Handle("GET /cases", cases(h.Cases))
	mux.Handle("GET /cases/new", cases(h.RequireAction(domainauth.ActionCreateCase, h.NewCase)))
	mux.Handle("POST /cases", cases(h.RequireAction(domainauth.ActionCreateCase, h.CreateCase)))
	mux.Handle("GET /cases/{id}/edit", cases(h.RequireAction(domainauth.ActionUpdateCase, h.EditCase)))
	mux.Handle("POST /cases/{id}", cases(h.RequireAction(domainauth.ActionUpdateCase, h.UpdateCase)))
	mux.Handle("POST /cases/{id}/close", cases(h.RequireAction(domainauth.ActionCloseCase, h.CloseCase)))
	mux.Handle("POST /cases/{id}/delete", cases(h.RequireAction(domainauth.ActionDeleteCase, h.DeleteCase)))

	mux.Handle("GET /analytics", h.RequireSection(domainauth.SectionAnalytics, h.Analytics))

	messages := func(next http.HandlerFunc) http.Handler { return h.RequireSection(domainauth.SectionMessaging, next) }
	mux.Handle("GET /messages", messages(h.Messages))
	mux.Handle("GET /messages/unread-count", messages(h.UnreadCount))
	mux.Handle("POST /messages", messages(h.RequireAction(domainauth.ActionSendMessage, h.SendMessage)))
	mux.Handle("POST /messages/{id}/read", messages(h.MarkMessageRead))
	mux.Handle("POST /messages/{id}/delete", messages(h.RequireAction(domainauth.ActionDeleteMsg, h.DeleteMessage)))

	admin := func(next http.HandlerFunc) http.Handler {
		return h.RequireSection(domainauth.SectionAdmin, h.RequireAction(domainauth.ActionManageUsers, next))
	}
	mux.Handle("GET /admin", admin(h.Admin))
	mux.Handle("GET /admin/users/new", admin(h.NewUser))
	mux.Handle("POST /admin/users", admin(h.CreateUser))
	mux.Handle("GET /admin/users/{id}/edit", admin(h.EditUser))
	mux.Handle("POST /admin/users/{id}", admin(h.UpdateUser))
	mux.Handle("POST /admin/users/{id}/delete", admin(h.DeleteUser))
}

// staticWithCacheHeaders lets fingerprinted assets be cached for a year and
// everything else revalidated.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	hashedFilePattern := regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}

// NotFound renders the 404 page for any path no other route claims.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) {
		HTMX(w).KeepDOM().Toast("Page not found", "error").Done(http.StatusNotFound)
		return
	}
	data := NewTemplateData(r, PageMeta{Title: "Not found", CurrentPage: PageNotFound}).Build()
	if err := h.T.RenderFullStatus(w, http.StatusNotFound, data); err != nil {
		http.NotFound(w, r)
	}
}
