package config

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// CookieDomain is the domain for the browser-context and CSRF cookies.
	// Leave empty to use the request host.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if strings.TrimSpace(h.Addr) == "" {
		h.Addr = ":8080"
	}
	h.CookieDomain = SanitizeCookieDomain(h.CookieDomain)
}

// SanitizeCookieDomain normalizes a cookie domain and drops values a browser would
// reject: public suffixes such as "com" or "co.uk", and anything that is not a host name.
func SanitizeCookieDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, ".")
	if d == "" || strings.ContainsAny(d, ":/ ") {
		return ""
	}
	if d == "localhost" {
		return d
	}
	suffix, _ := publicsuffix.PublicSuffix(d)
	if suffix == d {
		return ""
	}
	return d
}
