package travelbooking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-playground/validator"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/travel-booking/internal/cache"
	"github.com/magabrotheeeer/travel-booking/internal/config"
	"github.com/magabrotheeeer/travel-booking/internal/lib/email"
	"github.com/magabrotheeeer/travel-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/travel-booking/internal/lib/metrics"
	"github.com/magabrotheeeer/travel-booking/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/travel-booking/internal/lib/ratelimit"
	"github.com/magabrotheeeer/travel-booking/internal/lib/sl"
	"github.com/magabrotheeeer/travel-booking/internal/migrations"
	authservice "github.com/magabrotheeeer/travel-booking/internal/services/auth"
	bookingservice "github.com/magabrotheeeer/travel-booking/internal/services/booking"
	cartservice "github.com/magabrotheeeer/travel-booking/internal/services/cart"
	catalogservice "github.com/magabrotheeeer/travel-booking/internal/services/catalog"
	hotelservice "github.com/magabrotheeeer/travel-booking/internal/services/hotel"
	"github.com/magabrotheeeer/travel-booking/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App содержит HTTP-сервер API и его зависимости.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *repository.Storage
	cache   *cache.Cache
	limiter ratelimit.Limiter
	sweep   time.Duration
	amqp    *amqp.Connection
	channel *amqp.Channel
}

// New подключается к хранилищам, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "travelbooking.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a := &App{logger: logger, db: db, sweep: cfg.SweepInterval}
	if err := a.init(ctx, cfg); err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func (a *App) init(ctx context.Context, cfg *config.Config) error {
	logger := a.logger

	redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
	switch {
	case err == nil:
		a.cache = redisCache
	case cfg.Backend == ratelimit.BackendRedis:
		return err
	default:
		logger.Warn("redis is unavailable, running without cache", sl.Err(err))
	}

	var rdb *redis.Client
	if a.cache != nil {
		rdb = a.cache.Db
	}
	a.limiter, err = ratelimit.New(cfg.RateLimit, rdb)
	if err != nil {
		return err
	}

	var publisher bookingservice.Publisher
	if cfg.RabbitMQ.URL != "" {
		a.amqp, err = rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RetryDelay)
		if err != nil {
			return err
		}
		a.channel, err = rabbitmq.SetupChannel(a.amqp, rabbitmq.BookingQueues())
		if err != nil {
			return err
		}
		publisher = rabbitmq.NewPublisher(a.channel)
	} else {
		logger.Warn("rabbitmq url is empty, booking confirmations are disabled")
	}

	validate := validator.New()
	if err := email.RegisterValidation(validate); err != nil {
		return err
	}

	m := metrics.New()
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	var placeCache catalogservice.Cache
	var hotelCache hotelservice.Cache
	if a.cache != nil {
		placeCache, hotelCache = a.cache, a.cache
	}

	deps := Deps{
		Logger:         logger,
		Validate:       validate,
		JWTMaker:       jwtMaker,
		Metrics:        m,
		RequestLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		RequestTimeout: cfg.RequestTimeout,
		DB:             a.db,
		Auth:           authservice.NewService(logger, a.db, a.limiter, jwtMaker, m, cfg.AdminEmails),
		Catalog:        catalogservice.NewService(a.db, placeCache, cfg.CacheTTL, logger),
		Hotels:         hotelservice.NewService(a.db, hotelCache, cfg.CacheTTL, logger),
		Cart:           cartservice.NewService(a.db, logger),
		Booking:        bookingservice.NewService(a.db, publisher, m, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, deps)

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return nil
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	if mem, ok := a.limiter.(*ratelimit.Memory); ok {
		go mem.Run(ctx, a.sweep)
	}

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
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.channel != nil {
		if err := a.channel.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
