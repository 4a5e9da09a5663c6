package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/target/crms-console/internal/domain/auth"
	"github.com/target/crms-console/internal/gateway"
	obserrors "github.com/target/crms-console/internal/observability/errors"
	"github.com/target/crms-console/internal/service"
)

const sessionExpiredMessage = "Your session has expired. Please log in again."

// presentError decides how a failed API call is shown.
//
//   - Unauthorized: the session is cleared and the browser is sent to /login.
//   - htmx request: HX-Reswap none plus a showToast trigger, so rows already on
//     screen stay in place.
//   - full page: the page frame with an error banner and no records.
func (h *UIHandlers) presentError(w http.ResponseWriter, r *http.Request, err error, meta PageMeta) {
	h.presentErrorWith(w, r, err, NewTemplateData(r, meta))
}

// presentErrorWith is presentError for pages that keep extra data on failure,
// such as a form with the submitted values.
func (h *UIHandlers) presentErrorWith(w http.ResponseWriter, r *http.Request, err error, b *TemplateDataBuilder) {
	ctx := r.Context()
	if gateway.IsUnauthorized(err) {
		h.expireSession(r)
		if IsHTMX(r) {
			SetHXRedirect(w, "/login")
			HTMX(w).KeepDOM().Toast(sessionExpiredMessage, "error").Done(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	msg := service.UserMessage(err)
	h.logger().WarnContext(ctx, "api call failed",
		slog.Any("page", b.data["CurrentPage"]),
		slog.Int("status", gateway.StatusOf(err)),
		slog.String("error_class", obserrors.Classify(err)),
		slog.Any("error", err),
	)

	if IsHTMX(r) {
		HTMX(w).KeepDOM().Toast(msg, "error").Done(http.StatusOK)
		return
	}

	status := http.StatusOK
	if gateway.IsNetwork(err) {
		status = http.StatusBadGateway
	}
	if renderErr := h.T.RenderFullStatus(w, status, b.WithError(msg).Build()); renderErr != nil {
		h.logger().ErrorContext(ctx, "render error page", "error", renderErr)
	}
}

// expireSession clears the current context's session after the API rejected its token.
func (h *UIHandlers) expireSession(r *http.Request) {
	scope, ok := ScopeFrom(r.Context())
	if !ok {
		return
	}
	if err := scope.Sessions.Clear(r.Context()); err != nil {
		h.logger().WarnContext(r.Context(), "failed to clear expired session", "error", err)
		return
	}
	scope.LoggedIn = false
	scope.Session = domainauth.Session{}
	h.logger().InfoContext(r.Context(), "session cleared after unauthorized response", "context_id", scope.ContextID)
}
