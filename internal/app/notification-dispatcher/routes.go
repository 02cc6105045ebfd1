// Package notificationdispatcher предоставляет сборку и маршруты основного приложения.
package notificationdispatcher

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/notification-dispatcher/internal/http/handlers/addtype"
	"github.com/magabrotheeeer/notification-dispatcher/internal/http/handlers/health"
	"github.com/magabrotheeeer/notification-dispatcher/internal/http/handlers/notify"
	"github.com/magabrotheeeer/notification-dispatcher/internal/http/handlers/register"
	"github.com/magabrotheeeer/notification-dispatcher/internal/http/middlewarectx"
	"github.com/magabrotheeeer/notification-dispatcher/internal/ratelimit"
	notificationservice "github.com/magabrotheeeer/notification-dispatcher/internal/services/notification"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, service *notificationservice.Service, limiter *ratelimit.Limiter) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Ограничение частоты запросов стоит перед всей бизнес-логикой.
		r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))

		r.Post("/register", register.New(logger, service).ServeHTTP)
		r.Post("/notify", notify.New(logger, service).ServeHTTP)
		r.Post("/admin/notification-types", addtype.New(logger, service).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
