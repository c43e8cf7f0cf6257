package hotelbooking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/hotel-booking/internal/cache"
	"github.com/magabrotheeeer/hotel-booking/internal/config"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/cipher"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/hotel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/hotel-booking/internal/migrations"
	"github.com/magabrotheeeer/hotel-booking/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/hotel-booking/internal/services/auth"
	availabilityservice "github.com/magabrotheeeer/hotel-booking/internal/services/availability"
	bookingservice "github.com/magabrotheeeer/hotel-booking/internal/services/booking"
	groupservice "github.com/magabrotheeeer/hotel-booking/internal/services/grouprequest"
	hotelservice "github.com/magabrotheeeer/hotel-booking/internal/services/hotel"
	notificationservice "github.com/magabrotheeeer/hotel-booking/internal/services/notifications"
	userservice "github.com/magabrotheeeer/hotel-booking/internal/services/users"
	"github.com/magabrotheeeer/hotel-booking/internal/storage"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-приложение бронирования.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New поднимает зависимости, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if bypassed, err := db.RowSecurityBypassed(ctx); err != nil {
		logger.Error("failed to check row level security", sl.Err(err))
	} else if bypassed {
		logger.Warn("database role bypasses row level security, connect as a non-superuser table owner")
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	box, err := cipher.New(cfg.EncryptionKey)
	if err != nil {
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}
	publisher := rabbitmq.NewPublisher(ch)

	payments := paymentprovider.NewClient(cfg.Endpoint, cfg.MerchantID, cfg.SecretKey)
	if payments.Mock() {
		logger.Warn("payment gateway endpoint is empty, invoices are mocked")
	}
	tokens := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	venue := hotelservice.Venue{Name: cfg.VenueName, Latitude: cfg.Latitude, Longitude: cfg.Longitude}

	services := Services{
		Auth:          authservice.NewService(db, tokens),
		Hotels:        hotelservice.NewService(db, cacheRedis, cfg.TTL, venue, logger),
		Availability:  availabilityservice.NewService(db, cacheRedis, cfg.TTL, logger),
		Bookings:      bookingservice.NewService(db, box, payments, publisher, cfg.PublicURL, logger),
		Users:         userservice.NewService(db, logger),
		Groups:        groupservice.NewService(db, publisher, logger),
		Notifications: notificationservice.NewService(db),
		Tokens:        tokens,
		Profiles:      db,
		DB:            db,
		MockPayments:  payments.Mock(),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.HTTPServer, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run обслуживает запросы до отмены ctx и затем плавно останавливает сервер.
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

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}
	a.close()
	return err
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
