package httpx

// Page identifiers used in templates and navigation.
const (
	PageLogin     = "login"
	PageDashboard = "dashboard"
	PageReports   = "reports"
	PageReport    = "report-form"
	PageCases     = "cases"
	PageCase      = "case-form"
	PageAnalytics = "analytics"
	PageMessages  = "messages"
	PageAdmin     = "admin"
	PageUser      = "user-form"
	PageForbidden = "forbidden"
	PageNotFound  = "not-found"
)

const (
	// ContextCookieName identifies the browser context whose session a request uses.
	ContextCookieName = "crms_ctx"
	// contextCookieMaxAge keeps the context id for 30 days; the session itself expires sooner.
	contextCookieMaxAge = 30 * 24 * 3600
)

// Template paths used for loading templates in tests and dev mode.
const (
	TemplatePathFromRoot = "web/templates"
	TemplatePathFromTest = "../../web/templates"
	StaticPathFromRoot   = "web/static"
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	FormModeEdit   FormMode = "edit"
	FormModeCreate FormMode = "create"
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageLogin:     "login-content",
	PageDashboard: "dashboard-content",
	PageReports:   "reports-content",
	PageReport:    "report-form-content",
	PageCases:     "cases-content",
	PageCase:      "case-form-content",
	PageAnalytics: "analytics-content",
	PageMessages:  "messages-content",
	PageAdmin:     "admin-content",
	PageUser:      "user-form-content",
	PageForbidden: "forbidden-content",
	PageNotFound:  "not-found-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to dashboard-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}
