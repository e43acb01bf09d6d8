// Package catalog собирает HTTP-приложение каталога AI-инструментов.
package catalog

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/ai-tools-catalog/internal/config"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/handlers/aitool/create"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/handlers/aitool/list"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/handlers/aitool/rate"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/handlers/aitool/review"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/handlers/aitool/reviews"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/handlers/auth/login"
	registerhandler "github.com/magabrotheeeer/ai-tools-catalog/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/handlers/health"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/handlers/user/profile"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/lib/metrics"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/services/aitool"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/services/auth"
	"github.com/magabrotheeeer/ai-tools-catalog/internal/services/payment"
)

// Services — сервисы, которые обслуживают маршруты.
type Services struct {
	Auth    *auth.AuthService
	Tools   *aitool.Service
	Payment *payment.Service
	Health  health.Checker // nil для хранилища в памяти
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg config.HTTPServer, s Services,
	m *metrics.Metrics, gatherer prometheus.Gatherer) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware(m),
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", registerhandler.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimitRPS, cfg.RateLimitBurst))

			r.Post("/payment/create", paymentcreate.New(logger, s.Payment).ServeHTTP)
			r.Get("/user", profile.New(logger, s.Auth).ServeHTTP)

			listHandler := list.New(logger, s.Tools)
			r.Get("/ai-tools", listHandler.ServeHTTP)
			r.Get("/ai-tools/search", listHandler.ServeHTTP)
			r.With(middlewarectx.SubscriptionMiddleware(logger)).
				Post("/ai-tools", create.New(logger, s.Tools).ServeHTTP)
			r.Post("/ai-tools/{id}/rate", rate.New(logger, s.Tools).ServeHTTP)
			r.Post("/ai-tools/{id}/reviews", review.New(logger, s.Tools).ServeHTTP)
			r.Get("/ai-tools/{id}/reviews", reviews.New(logger, s.Tools).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, s.Health).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
