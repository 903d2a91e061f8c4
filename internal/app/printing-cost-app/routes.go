// Package printingcostapp предоставляет маршруты для основного приложения.
package printingcostapp

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rade-studio/printing-cost-app/internal/http/handlers/auth/login"
	"github.com/rade-studio/printing-cost-app/internal/http/handlers/auth/register"
	"github.com/rade-studio/printing-cost-app/internal/http/handlers/invitation/apply"
	notificationclose "github.com/rade-studio/printing-cost-app/internal/http/handlers/notification/close"
	notificationshow "github.com/rade-studio/printing-cost-app/internal/http/handlers/notification/show"
	notificationstatus "github.com/rade-studio/printing-cost-app/internal/http/handlers/notification/status"
	notificationws "github.com/rade-studio/printing-cost-app/internal/http/handlers/notification/ws"
	"github.com/rade-studio/printing-cost-app/internal/http/handlers/subscription/health"
	"github.com/rade-studio/printing-cost-app/internal/http/handlers/subscription/refresh"
	"github.com/rade-studio/printing-cost-app/internal/http/handlers/subscription/status"
	"github.com/rade-studio/printing-cost-app/internal/billing"
	"github.com/rade-studio/printing-cost-app/internal/http/middlewarectx"
	"github.com/rade-studio/printing-cost-app/internal/notify"
	authservice "github.com/rade-studio/printing-cost-app/internal/services/auth"
	dismissalservice "github.com/rade-studio/printing-cost-app/internal/services/dismissal"
	gateservice "github.com/rade-studio/printing-cost-app/internal/services/gate"
	"github.com/rade-studio/printing-cost-app/internal/storage/repository"
)

// Deps — собранные сервисы приложения, необходимые маршрутам.
type Deps struct {
	Auth      *authservice.AuthService
	Billing   *billing.Client
	Gate      *gateservice.GateService
	Dismissal *dismissalservice.DismissalService
	Hub       *notify.Hub
	Storage   *repository.Storage
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, deps.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, deps.Auth).ServeHTTP)
		r.Get("/health", health.New(logger, deps.Storage).ServeHTTP)

		// Группа с JWT аутентификацией. Статус, принудительное обновление
		// и код приглашения доступны и с истёкшей подпиской, иначе
		// арендатор не смог бы её продлить.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(deps.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/subscription/status", status.New(logger, deps.Gate).ServeHTTP)
			r.Post("/subscription/refresh", refresh.New(logger, deps.Gate).ServeHTTP)
			r.Post("/invitation", apply.New(logger, deps.Billing, deps.Gate).ServeHTTP)

			// Группа за гейтом подписки: баннер уведомления имеет смысл
			// только для действующей подписки.
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.SubscriptionGateMiddleware(logger, deps.Gate))
				r.Get("/notification", notificationstatus.New(logger, deps.Dismissal).ServeHTTP)
				r.Post("/notification/close", notificationclose.New(logger, deps.Dismissal).ServeHTTP)
				r.Post("/notification/show", notificationshow.New(logger, deps.Dismissal).ServeHTTP)
				r.Get("/notification/ws", notificationws.New(logger, deps.Hub).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
