package config

import (
	"os"
	"strings"
)

// AppConfig is the console's full environment-derived configuration.
// Nested structs own their variables: api.go (CRMS backend), http.go (listener and
// cookies), session.go (entry store backend), database.go (Postgres/Redis for that
// backend) and observability.go (log level, StatsD).
type AppConfig struct {
	// IsDev re-reads templates and static files from disk on each request.
	// NODE_ENV=development also enables it.
	IsDev bool `env:"DEV" envDefault:"false"`

	API     APIConfig
	HTTP    HTTPConfig
	Session SessionConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// Services is the comma-separated list of modes this process runs.
	Services string `env:"SERVICES" envDefault:"http,reaper"`

	Observability ObservabilityConfig
}

// Sanitize clamps every nested section. Call it once after env.Parse.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.HTTP.Sanitize()
	c.Session.Sanitize()
	c.Postgres.Sanitize()
	c.Redis.Sanitize()
	c.Observability.Sanitize()

	if !c.IsDev {
		switch strings.ToLower(os.Getenv("NODE_ENV")) {
		case "development", "dev":
			c.IsDev = true
		}
	}
}

// RunPlan resolves SERVICES against the session backend. The reaper is dropped when
// the backend expires entries itself, so the plan may be narrower than the request.
func (c *AppConfig) RunPlan() ([]ServiceMode, error) {
	requested, err := ParseServices(c.Services)
	if err != nil {
		return nil, err
	}
	plan := make([]ServiceMode, 0, len(requested))
	for _, m := range ValidServiceModes() {
		if !requested.Has(m) {
			continue
		}
		if m == ServiceModeReaper && !c.Session.NeedsReaper() {
			continue
		}
		plan = append(plan, m)
	}
	return plan, nil
}

func (c *AppConfig) runs(mode ServiceMode) bool {
	plan, err := c.RunPlan()
	if err != nil {
		return false
	}
	for _, m := range plan {
		if m == mode {
			return true
		}
	}
	return false
}

// IsHTTPServerEnabled reports whether the plan includes the HTTP server.
func (c *AppConfig) IsHTTPServerEnabled() bool { return c.runs(ServiceModeHTTP) }

// IsReaperEnabled reports whether the plan includes the expired-entry reaper.
func (c *AppConfig) IsReaperEnabled() bool { return c.runs(ServiceModeReaper) }
