package httpx

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func skipWithoutTemplates(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); err != nil {
		t.Skipf("templates not available: %v", err)
	}
}

// newTestRenderer parses the on-disk templates the console embeds in production.
func newTestRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	skipWithoutTemplates(t)
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: os.DirFS(TemplatePathFromTest)})
	require.NoError(t, err)
	return tr
}

// assertContainsAll reports every fragment missing from body.
func assertContainsAll(t *testing.T, body string, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		if !strings.Contains(body, f) {
			t.Errorf("body missing %q\n%s", f, body)
		}
	}
}
