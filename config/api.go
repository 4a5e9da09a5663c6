package config

import (
	"net/url"
	"strings"
	"time"
)

const defaultAPIBaseURL = "http://localhost:8081/api"

// APIConfig describes the CRMS backend the console talks to.
type APIConfig struct {
	// BaseURL is the API root every request path is joined onto.
	BaseURL string `env:"CRMS_API_BASE_URL" envDefault:"http://localhost:8081/api"`

	// Timeout bounds a single backend round trip.
	Timeout time.Duration `env:"CRMS_API_TIMEOUT" envDefault:"30s"`

	// RateLimit is the client-side request rate per second; zero disables limiting.
	RateLimit float64 `env:"CRMS_API_RATE_LIMIT" envDefault:"0"`
	Burst     int     `env:"CRMS_API_BURST"      envDefault:"10"`
}

// Sanitize applies guardrails to API configuration values.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		c.BaseURL = defaultAPIBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RateLimit < 0 {
		c.RateLimit = 0
	}
	if c.Burst < 1 {
		c.Burst = 1
	}
}
