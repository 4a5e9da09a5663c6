package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing templates (required)
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer parses layout.tmpl, pages/*.tmpl and partials/*.tmpl from cfg.TemplateFS.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := &TemplateRenderer{logger: logger}
	var t *template.Template
	var err error
	t, err = template.New("root").Funcs(templateFuncs(&t)).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		logger.Error("template parsing failed", slog.Any("error", err), slog.String("phase", "initialization"))
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, data any) error {
	return r.renderTemplate(w, renderTarget{name: "layout", status: http.StatusOK}, data)
}

// RenderFullStatus renders the full page with a non-200 status (403, 404, 502).
func (r *TemplateRenderer) RenderFullStatus(w http.ResponseWriter, status int, data any) error {
	return r.renderTemplate(w, renderTarget{name: "layout", status: status}, data)
}

// RenderPartial renders only the main content area.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, data any) error {
	return r.renderTemplate(w, renderTarget{name: "content", status: http.StatusOK}, data)
}

// RenderNamed renders a single named fragment such as "unread-badge".
func (r *TemplateRenderer) RenderNamed(w http.ResponseWriter, name string, data any) error {
	return r.renderTemplate(w, renderTarget{name: name, status: http.StatusOK}, data)
}

type renderTarget struct {
	name   string
	status int
}

func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, target renderTarget, data any) error {
	templateName := target.name
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, templateName, data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", templateName),
			slog.Any("error", err),
		)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(target.status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("template", templateName),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}
