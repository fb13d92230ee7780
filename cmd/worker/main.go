package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dharmasatrya/faredesk/internal/config"
	"github.com/dharmasatrya/faredesk/internal/events"
	"github.com/dharmasatrya/faredesk/internal/ticketing"
	"github.com/dharmasatrya/faredesk/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(config.Path())
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	if !cfg.Kafka.Enabled() {
		logger.Error("worker needs kafka.brokers or KAFKA_BROKERS")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.EmailTopic, logger)
	defer consumer.Close()

	dispatcher := worker.NewEmailDispatcher(
		ticketing.NewClient(ticketing.Config{BaseURL: cfg.Backends.BaseURL}),
		logger,
	)

	logger.Info("ticket email worker started",
		slog.String("topic", cfg.Kafka.EmailTopic),
		slog.String("group", cfg.Kafka.GroupID),
	)
	if err := consumer.Consume(ctx, dispatcher.Handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker shut down")
}
