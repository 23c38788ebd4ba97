package app

import (
	"context"
	"fmt"

	"churchdir/internal/config"
	"churchdir/internal/db"
	"churchdir/internal/handlers"
	"churchdir/internal/logger"
	"churchdir/internal/middleware"
	"churchdir/internal/repository"
	"churchdir/internal/routes"
	"churchdir/internal/services"
	"churchdir/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type accountStore interface {
	services.AccountRepo
	handlers.Pinger
}

type App struct {
	Router   *mux.Router
	notifier *services.MailNotifier
	closers  []func()
}

// Close вызывается после остановки HTTP-сервера: сначала дописываем очередь писем,
// затем закрываем соединения в обратном порядке.
func (a *App) Close() {
	if a.notifier != nil {
		a.notifier.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// InitApp собирает зависимости. ctx нужен только на время подключения к хранилищам.
func InitApp(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	// Хранилище аккаунтов
	var accounts accountStore
	switch cfg.DbDriver {
	case "mongo":
		database, err := db.NewMongoConnection(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		a.closers = append(a.closers, func() { _ = database.Client().Disconnect(context.Background()) })
		accounts = repository.NewMongoAccountRepository(database)
		logger.Log.Info("Хранилище аккаунтов: MongoDB", zap.String("db", cfg.MongoDB))
	default:
		pool, err := db.NewPostgresConnection(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		accounts = repository.NewAccountRepository(pool)
		logger.Log.Info("Хранилище аккаунтов: PostgreSQL", zap.String("dsn", cfg.GetDSNSafe()))
	}

	rdb, err := db.NewRedisConnection(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	a.closers = append(a.closers, func() { _ = rdb.Close() })
	resets := repository.NewResetStateRepository(rdb)

	// Сервисы
	signer := utils.NewTokenSigner(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg)
	a.notifier = services.NewMailNotifier(emailService, cfg.AppName, cfg.OTPTTL, 100)
	a.notifier.StartWorkers(cfg.EmailWorkers)

	authService := services.NewAuthService(accounts, signer, a.notifier, cfg.SessionTokenTTL)
	passwordService := services.NewPasswordService(
		accounts, resets, a.notifier, signer, cfg.OTPPepper,
		services.ResetPolicy{
			OTPTTL:      cfg.OTPTTL,
			Window:      cfg.ResetWindow,
			MaxAttempts: cfg.ResetMaxAttempts,
			GrantTTL:    cfg.ResetTokenTTL,
		},
		services.WithOTPExposure(cfg.IsDev()),
	)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService)
	passwordHandler := handlers.NewPasswordHandler(passwordService)
	contactHandler := handlers.NewContactHandler(authService)
	redisPing := handlers.PingFunc(func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler := handlers.NewHealthHandler(map[string]handlers.Pinger{
		"db":    accounts,
		"redis": redisPing,
	})

	authLimiter := middleware.NewRateLimiter(rdb, "auth", cfg.AuthRateLimit, cfg.AuthRateWindow)

	// Маршруты
	a.Router = mux.NewRouter()
	routes.InitRoutes(a.Router, signer, authLimiter, authHandler, passwordHandler, contactHandler, healthHandler)

	return a, nil
}
