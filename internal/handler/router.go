package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dmanalytics/miniapp/internal/middleware"
)

// RouterConfig wires the dev backend routes.
type RouterConfig struct {
	Handler     *Handler
	Health      *HealthHandler
	Logger      *slog.Logger
	BotToken    string
	CORSOrigins []string
	Development bool
}

// NewRouter builds the chi router serving the Mini App API.
func NewRouter(cfg RouterConfig) *chi.Mux {
	h := cfg.Handler
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSOrigins

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger, cfg.Development))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(middleware.DefaultMaxBodyBytes))

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)

	// The log poller calls this without credentials.
	r.Get("/sync/logs", h.SyncLogs)

	initData := middleware.InitData(middleware.InitDataConfig{
		Logger:   cfg.Logger,
		Users:    h.store,
		BotToken: cfg.BotToken,
	})

	r.Group(func(r chi.Router) {
		r.Use(initData)

		r.Post("/auth", h.Auth)
		r.Get("/accounts_list", h.AccountsList)
		r.Post("/analytics_add", h.AnalyticsAdd)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/admin/get_full_team_data", h.TeamData)
			r.Post("/register_user", h.RegisterUser)
			r.Post("/sync/start", h.SyncStart)
		})
	})

	return r
}
