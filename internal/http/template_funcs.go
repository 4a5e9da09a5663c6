package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	domainauth "github.com/target/crms-console/internal/domain/auth"
	"github.com/target/crms-console/internal/domain/model"
)

// RoleOption is one entry of the user form's role selector.
type RoleOption struct {
	ID   int64
	Name domainauth.Role
}

func templateFuncs(t **template.Template) template.FuncMap {
	printer := message.NewPrinter(language.English)
	return template.FuncMap{
		"sectionTmpl": ContentTemplateFor,
		"renderSection": func(page string, data any) (template.HTML, error) {
			if t == nil || *t == nil {
				return "", errors.New("template not initialized")
			}
			var buf bytes.Buffer
			if err := (*t).ExecuteTemplate(&buf, ContentTemplateFor(page), data); err != nil {
				return "", err
			}
			// #nosec G203 - rendered by our own html/template set; values were escaped above.
			return template.HTML(buf.String()), nil
		},
		"statusColor":  model.StatusColor,
		"statuses":     model.RecordStatuses,
		"formatNumber": func(n int64) string { return printer.Sprintf("%d", n) },
		"percentOf":    func(part, total int64) string { return formatPercent(model.Percent(part, total)) },
		"percent":      formatPercent,
		"decimal":      func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) },
		"floatVal": func(f *float64) string {
			if f == nil {
				return ""
			}
			return strconv.FormatFloat(*f, 'f', -1, 64)
		},
		"can": func(role domainauth.Role, action string) bool {
			return domainauth.Allows(role, domainauth.Action(action))
		},
		"roleOptions": roleOptions,
		"truncate":    truncate,
	}
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func roleOptions() []RoleOption {
	ids := model.RoleIDs()
	out := make([]RoleOption, 0, len(ids))
	for id, name := range ids {
		out = append(out, RoleOption{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// truncate shortens s to at most n runes, appending an ellipsis when cut.
func truncate(n int, s string) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
