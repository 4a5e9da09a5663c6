package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	crmsconsole "github.com/target/crms-console"
	"github.com/target/crms-console/config"
	"github.com/target/crms-console/internal/gateway"
	httpx "github.com/target/crms-console/internal/http"
	"github.com/target/crms-console/internal/session"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Sessions *session.Provider
	Gateway  *gateway.Client
	Logger   *slog.Logger
}

// BuildHTTPHandler wires the console router with the embedded templates and static assets.
func BuildHTTPHandler(cfg *HTTPServerConfig) (http.Handler, error) {
	if cfg == nil || cfg.Config == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templates, err := fs.Sub(crmsconsole.TemplateFS, "web/templates")
	if err != nil {
		return nil, fmt.Errorf("embedded templates: %w", err)
	}
	static, err := fs.Sub(crmsconsole.StaticFS, "web/static")
	if err != nil {
		return nil, fmt.Errorf("embedded static assets: %w", err)
	}

	return httpx.NewRouter(httpx.RouterConfig{
		Sessions:     cfg.Sessions,
		Gateway:      cfg.Gateway,
		CookieDomain: cfg.Config.HTTP.CookieDomain,
		TemplateFS:   templates,
		StaticFS:     static,
		IsDev:        cfg.Config.IsDev,
		Logger:       logger,
	})
}

// NewHTTPServer builds the console handler and an unstarted server with conservative timeouts.
func NewHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	handler, err := BuildHTTPHandler(cfg)
	if err != nil {
		return nil, err
	}
	addr := cfg.Config.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}, nil
}

// serveHTTP blocks until the server stops; a clean Shutdown is not an error.
func serveHTTP(logger *slog.Logger, server *http.Server) error {
	logger.Info("starting HTTP server", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
