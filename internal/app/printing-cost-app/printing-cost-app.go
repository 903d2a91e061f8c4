package printingcostapp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/rade-studio/printing-cost-app/internal/billing"
	"github.com/rade-studio/printing-cost-app/internal/cache"
	"github.com/rade-studio/printing-cost-app/internal/config"
	"github.com/rade-studio/printing-cost-app/internal/lib/jwt"
	"github.com/rade-studio/printing-cost-app/internal/lib/rabbitmq"
	"github.com/rade-studio/printing-cost-app/internal/lib/sl"
	"github.com/rade-studio/printing-cost-app/internal/migrations"
	"github.com/rade-studio/printing-cost-app/internal/notify"
	authservice "github.com/rade-studio/printing-cost-app/internal/services/auth"
	dismissalservice "github.com/rade-studio/printing-cost-app/internal/services/dismissal"
	gateservice "github.com/rade-studio/printing-cost-app/internal/services/gate"
	"github.com/rade-studio/printing-cost-app/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и ресурсы, требующие закрытия.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn io.Closer
}

// New собирает приложение из конфигурации: подключает PostgreSQL и Redis,
// накатывает миграции, поднимает соединение с RabbitMQ и регистрирует маршруты.
//
// RabbitMQ — необязательная зависимость: при недоступности брокера приложение
// стартует без публикации напоминаний, гейт при этом работает полностью.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var publisher gateservice.ReminderPublisher
	var rabbitConn io.Closer
	conn, err := rabbitmq.Connect(cfg.RabbitMQConnection, 5, 2*time.Second)
	if err != nil {
		logger.Warn("rabbitmq unavailable, expiring reminders disabled", sl.Err(err))
	} else {
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetReminderQueues())
		if err != nil {
			return nil, err
		}
		publisher = rabbitmq.NewReminderPublisher(ch)
		rabbitConn = conn
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	records := cache.NewRecordCache()
	billingClient := billing.NewClient(cfg.BillingAPI)

	broadcast := notify.NewBroadcast()
	hub := notify.NewHub(broadcast, logger)

	authService := authservice.NewAuthService(db, jwtMaker, records)
	gateService := gateservice.NewGateService(billingClient, records, redisCache, db, publisher, logger)
	dismissalService := dismissalservice.NewDismissalService(redisCache, broadcast, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Auth:      authService,
		Billing:   billingClient,
		Gate:      gateService,
		Dismissal: dismissalService,
		Hub:       hub,
		Storage:   db,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.rabbitConn != nil {
			_ = a.rabbitConn.Close()
		}
		_ = a.db.DB.Close()
		return err
	}
}
