package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTMXResponse_Redirect(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "redirect to login", url: "/login"},
		{name: "redirect with query params", url: "/messages?with=3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HTMX(w).Redirect(tt.url)

			if got := w.Header().Get("Hx-Redirect"); got != tt.url {
				t.Errorf("Redirect() header = %v, want %v", got, tt.url)
			}
			if w.Code != http.StatusNoContent {
				t.Errorf("Redirect() status = %v, want %v", w.Code, http.StatusNoContent)
			}
		})
	}
}

func TestHTMXResponse_Trigger(t *testing.T) {
	tests := []struct {
		name    string
		event   string
		payload any
		want    string
	}{
		{name: "nil payload", event: "refresh", payload: nil, want: `{"refresh":true}`},
		{name: "string payload", event: "notify", payload: "Saved", want: `{"notify":"Saved"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HTMX(w).Trigger(tt.event, tt.payload)
			if got := w.Header().Get("Hx-Trigger"); got != tt.want {
				t.Errorf("Trigger() header = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTMXResponse_ToastKeepDOM(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).KeepDOM().Toast("Failed to fetch cases", "error").Done(http.StatusOK)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Hx-Reswap"); got != "none" {
		t.Fatalf("HX-Reswap = %q", got)
	}
	var payload struct {
		ShowToast struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"showToast"`
	}
	if err := json.Unmarshal([]byte(w.Header().Get("Hx-Trigger")), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.ShowToast.Message != "Failed to fetch cases" || payload.ShowToast.Type != "error" {
		t.Fatalf("unexpected toast: %+v", payload.ShowToast)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", w.Body.String())
	}
}

func TestHTMXResponse_EmptyToastIsSkipped(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).Toast("  ", "error")
	if got := w.Header().Get("Hx-Trigger"); got != "" {
		t.Fatalf("expected no trigger, got %q", got)
	}
}
