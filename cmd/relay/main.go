package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payment-webhook-relay/config"
	httpHandler "payment-webhook-relay/internal/adapter/http/handler"
	kafkaAdapter "payment-webhook-relay/internal/adapter/kafka"
	pgStorage "payment-webhook-relay/internal/adapter/storage/postgres"
	redisStorage "payment-webhook-relay/internal/adapter/storage/redis"
	"payment-webhook-relay/internal/core/ports"
	"payment-webhook-relay/internal/metrics"
	"payment-webhook-relay/internal/service"
	"payment-webhook-relay/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Payment Webhook Relay")

	ctx := context.Background()

	// Initialize PostgreSQL pool (delivery audit log)
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Initialize Redis client (registrations + transaction state)
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Initialize stores
	registrationStore := redisStorage.NewRegistrationStore(rdb)
	stateStore := redisStorage.NewTxnStateStore(rdb)
	deliveryLogs := pgStorage.NewDeliveryLogRepo(pool)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewHMACSignatureService()
	registrySvc := service.NewRegistryService(registrationStore, encSvc, log)

	// Metrics
	m := metrics.New()

	// Delivery engine and worker pool
	deliverySvc := service.NewDeliveryService(
		deliveryLogs,
		encSvc,
		sigSvc,
		&http.Client{Timeout: cfg.Delivery.Timeout},
		service.DeliveryConfig{
			MaxAttempts: cfg.Delivery.MaxAttempts,
			Timeout:     cfg.Delivery.Timeout,
			BackoffBase: cfg.Delivery.BackoffBase,
			BackoffCap:  cfg.Delivery.BackoffCap,
		},
		m,
		log,
	)
	dispatcher := service.NewDispatcher(deliverySvc, cfg.Delivery.Workers, cfg.Delivery.QueueSize, log)

	consumeCtx, stopConsuming := context.WithCancel(ctx)
	dispatcher.Start(consumeCtx)

	// Event log consumer
	handler := service.NewConsumerService(stateStore, registrationStore, dispatcher, m, log)
	consumer, err := kafkaAdapter.NewConsumer(cfg.Kafka, handler, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Kafka consumer")
	}

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := consumer.Run(consumeCtx); err != nil {
			log.Error().Err(err).Msg("Kafka consumer stopped")
		}
	}()

	// Health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		RegistrySvc:       registrySvc,
		StateStore:        stateStore,
		DeliveryLogs:      deliveryLogs,
		RegistrationStore: registrationStore,
		EncSvc:            encSvc,
		SigSvc:            sigSvc,
		HealthCheckers:    []ports.HealthChecker{pgHealth, redisHealth},
		MetricsHandler:    m.Handler(),
		Logger:            log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down...")

	// Stop ingesting, then drain the delivery queues. In-flight backoff
	// sleeps are aborted by the cancelled context.
	stopConsuming()
	if err := consumer.Close(); err != nil {
		log.Error().Err(err).Msg("Kafka consumer close failed")
	}
	<-consumerDone
	dispatcher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Relay exited")
}
