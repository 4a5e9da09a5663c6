package httpx

import (
	"net/http"

	domainauth "github.com/target/crms-console/internal/domain/auth"
)

// PageMeta carries the title and navigation key of a page.
type PageMeta struct {
	Title       string
	CurrentPage string
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// basePageData holds the layout chrome: titles, CSRF token, identity and navigation.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	data := map[string]any{
		"Title":           meta.Title,
		"CurrentPage":     meta.CurrentPage,
		"CSRFToken":       GetCSRFToken(r),
		"IsAuthenticated": false,
		"Role":            domainauth.RoleNone,
		"Errors":          map[string]string{},
	}
	if sess, ok := SessionFrom(r.Context()); ok {
		data["IsAuthenticated"] = true
		data["Username"] = sess.Username
		data["Role"] = sess.Role
		data["Sections"] = domainauth.Sections(sess.Role)
	}
	return data
}
