package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMX_RequestDetection(t *testing.T) {
	tests := []struct {
		name             string
		headers          map[string]string
		htmx, boost, partial bool
	}{
		{name: "plain"},
		{name: "htmx fragment", headers: map[string]string{"Hx-Request": "true"}, htmx: true, partial: true},
		{name: "boosted", headers: map[string]string{"Hx-Request": "TRUE", "Hx-Boosted": "true"}, htmx: true, boost: true},
		{name: "false value", headers: map[string]string{"Hx-Request": "false"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/cases", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.htmx, IsHTMX(r))
			assert.Equal(t, tt.boost, IsBoosted(r))
			assert.Equal(t, tt.partial, WantsPartial(r))
		})
	}
}

func TestHTMX_Target(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/messages", nil)
	r.Header.Set("Hx-Target", "unread-badge")
	assert.Equal(t, "unread-badge", HXTarget(r))
}

func TestSetHXTrigger_MergesEvents(t *testing.T) {
	rr := httptest.NewRecorder()
	SetHXRedirect(rr, "/login")
	SetHXReswap(rr, "none")
	SetHXTrigger(rr, "showToast", map[string]any{"message": "hi"})
	SetHXTrigger(rr, "refreshUnread", nil)

	assert.Equal(t, "/login", rr.Header().Get("Hx-Redirect"))
	assert.Equal(t, "none", rr.Header().Get("Hx-Reswap"))

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(rr.Header().Get("Hx-Trigger")), &payload))
	assert.Equal(t, map[string]any{"message": "hi"}, payload["showToast"])
	assert.Equal(t, true, payload["refreshUnread"])
}
