package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/timeclock/api"
	"github.com/frahmantamala/timeclock/internal/punch"
	"github.com/frahmantamala/timeclock/internal/transport/middleware"
	"github.com/frahmantamala/timeclock/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
)

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

func RegisterAllRoutes(router chi.Router, db *sqlx.DB, punchHandler *punch.Handler, cfg RouterConfig) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(cfg.Logger))
	router.Use(middleware.RecoveryMiddleware(cfg.Logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Document())
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Get("/health", healthHandler.healthHandler)
	router.Get("/health/ready", healthHandler.readinessHandler)
	router.Get("/ping", healthHandler.pingHandler)

	if punchHandler != nil {
		router.Route("/pontos", func(r chi.Router) {
			r.Post("/bater", punchHandler.RegisterPunch) // POST /pontos/bater
			r.Get("/hoje", punchHandler.GetTodayStatus)  // GET /pontos/hoje?login=
		})
	}
}
