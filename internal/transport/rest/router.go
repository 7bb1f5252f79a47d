package rest

import (
	"log/slog"

	"github.com/frahmantamala/expenzor/internal/expense"
	"github.com/frahmantamala/expenzor/internal/transport/middleware"
	"github.com/frahmantamala/expenzor/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	OpenAPISpec    []byte
}

func RegisterAllRoutes(router *chi.Mux, cfg RouterConfig, health *HealthHandler, expenseHandler *expense.Handler, logger *slog.Logger) {
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if len(cfg.OpenAPISpec) > 0 {
		router.Get(swagger.SpecPath, swagger.SpecHandler(cfg.OpenAPISpec))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		if health != nil {
			r.Get("/health", health.healthCheckHandler)
			r.Get("/ping", health.pingHandler)
		}

		if expenseHandler != nil {
			r.Route("/expense", expenseHandler.Routes)
		}
	})
}
