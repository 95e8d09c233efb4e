// Package http assembles the HTTP front-end for the registration workflow.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/accountserv/accountserv/internal/http/features/registration"
	"github.com/accountserv/accountserv/internal/http/middleware"
	"github.com/accountserv/accountserv/internal/httputil"
	"github.com/accountserv/accountserv/pkg/register"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger           *slog.Logger
	RegisterService  *register.Service
	RateLimitEnabled bool
	RateLimitPerMin  int
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	limit := middleware.NoRateLimit()
	if cfg.RateLimitEnabled {
		limit = middleware.RateLimit(middleware.RateLimitConfig{
			Requests: cfg.RateLimitPerMin,
			Window:   time.Minute,
			Logger:   cfg.Logger,
		})
	}

	registrationHandler := registration.NewHandler(cfg.Logger, cfg.RegisterService)
	r.Group(func(r chi.Router) {
		r.Use(limit)
		r.Post("/v1/accounts/register", registrationHandler.Register)
	})

	return r
}
