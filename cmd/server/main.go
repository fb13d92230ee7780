package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dharmasatrya/faredesk/internal/aggregator"
	"github.com/dharmasatrya/faredesk/internal/cache"
	"github.com/dharmasatrya/faredesk/internal/carrier"
	"github.com/dharmasatrya/faredesk/internal/config"
	"github.com/dharmasatrya/faredesk/internal/events"
	"github.com/dharmasatrya/faredesk/internal/handler"
	"github.com/dharmasatrya/faredesk/internal/priceconfig"
	"github.com/dharmasatrya/faredesk/internal/providers"
	"github.com/dharmasatrya/faredesk/internal/ratelimit"
	"github.com/dharmasatrya/faredesk/internal/session"
	"github.com/dharmasatrya/faredesk/internal/ticketing"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(config.Path())
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	var configs priceconfig.Store
	if cfg.Database.DSN != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Error("failed to connect to postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		configs = priceconfig.NewPGStore(pool, logger)
		logger.Info("price configs from postgres")
	} else {
		configs = priceconfig.NewMemoryStore(cfg.PriceConfigs)
		logger.Info("price configs from config file", slog.Int("segments", len(cfg.PriceConfigs)))
	}

	var flightCache cache.Cache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis.RedisConfig)
		if err != nil {
			logger.Error("failed to connect to redis", slog.String("addr", cfg.Redis.Addr), slog.Any("error", err))
			os.Exit(1)
		}
		flightCache = redisCache
		logger.Info("redis cache enabled", slog.String("addr", cfg.Redis.Addr), slog.Duration("ttl", cfg.Redis.TTL))
	} else {
		flightCache = cache.NewNoOpCache()
		logger.Info("cache disabled")
	}
	defer flightCache.Close()

	backendCfg := providers.Config{BaseURL: cfg.Backends.BaseURL, Timeout: cfg.Backends.Timeout}
	backends := []aggregator.Backend{
		{
			Provider:           providers.NewVietjetProvider(backendCfg),
			Carrier:            carrier.CodeBudget,
			Serves:             aggregator.TouchesAirport(cfg.Search.BudgetAirports),
			UnavailableMessage: aggregator.MessageBudgetDomestic,
		},
		{
			Provider: providers.NewVNAProvider(backendCfg, logger),
			Carrier:  carrier.CodeFlag,
		},
	}
	agg := aggregator.NewAggregator(backends, aggregator.Config{
		RateLimiter: ratelimit.NewBackendLimiter(cfg.RateLimit.Default, cfg.RateLimit.Backends),
		Cache:       flightCache,
		Logger:      logger,
	})
	logger.Info("search backends ready", slog.Any("carriers", agg.Carriers()))

	var publisher events.Publisher
	if cfg.Kafka.Enabled() {
		producer := events.NewProducer(cfg.Kafka.Brokers, logger)
		defer producer.Close()
		publisher = producer
		logger.Info("kafka publishing enabled", slog.Any("brokers", cfg.Kafka.Brokers))
	} else {
		logger.Info("kafka disabled, ticket emails are sent inline")
	}

	ticketClient := ticketing.NewClient(ticketing.Config{BaseURL: cfg.Backends.BaseURL})

	handler.Register(e, handler.Handlers{
		Sessions: handler.NewSessionHandler(session.NewStore(), configs, agg, logger),
		Pricing:  handler.NewPricingHandler(configs, providers.NewLowFareClient(backendCfg)),
		Ticketing: handler.NewTicketingHandler(ticketClient, publisher, handler.Topics{
			Bookings: cfg.Kafka.BookingsTopic,
			Emails:   cfg.Kafka.EmailTopic,
		}, logger),
	})

	go func() {
		logger.Info("starting fare desk server", slog.String("port", cfg.HTTP.Port))
		if err := e.Start(":" + cfg.HTTP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", slog.Any("error", err))
	}
}
