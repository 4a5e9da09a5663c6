package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// htmx request and response headers used by the console.
const (
	hxRequest  = "Hx-Request"
	hxBoosted  = "Hx-Boosted"
	hxTarget   = "Hx-Target"
	hxRedirect = "Hx-Redirect"
	hxReswap   = "Hx-Reswap"
	hxTrigger  = "Hx-Trigger"
)

func headerTrue(r *http.Request, name string) bool {
	return strings.EqualFold(r.Header.Get(name), "true")
}

// IsHTMX reports whether htmx issued the request.
func IsHTMX(r *http.Request) bool { return headerTrue(r, hxRequest) }

// IsBoosted reports an hx-boost navigation.
func IsBoosted(r *http.Request) bool { return headerTrue(r, hxBoosted) }

// HXTarget returns the id of the element htmx will swap, if any.
func HXTarget(r *http.Request) string { return r.Header.Get(hxTarget) }

// WantsPartial is true when only the page fragment should be rendered;
// boosted navigations replace the body and need the layout.
func WantsPartial(r *http.Request) bool { return IsHTMX(r) && !IsBoosted(r) }

// SetHXRedirect makes htmx perform a full-page navigation to url.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set(hxRedirect, url) }

// SetHXReswap overrides hx-swap for this response.
func SetHXReswap(w http.ResponseWriter, strategy string) { w.Header().Set(hxReswap, strategy) }

// SetHXTrigger adds event to the HX-Trigger JSON object, keeping events set earlier
// on the same response. A nil payload is sent as true.
func SetHXTrigger(w http.ResponseWriter, event string, payload any) {
	events := map[string]any{}
	if existing := w.Header().Get(hxTrigger); existing != "" {
		_ = json.Unmarshal([]byte(existing), &events)
	}
	if payload == nil {
		payload = true
	}
	events[event] = payload

	b, err := json.Marshal(events)
	if err != nil {
		b, _ = json.Marshal(map[string]bool{event: true})
	}
	w.Header().Set(hxTrigger, string(b))
}
