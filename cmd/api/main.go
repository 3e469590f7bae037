package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subscription-ledger/config"
	httpHandler "subscription-ledger/internal/adapter/http/handler"
	"subscription-ledger/internal/adapter/http/middleware"
	"subscription-ledger/internal/adapter/messaging/rabbitmq"
	"subscription-ledger/internal/adapter/metrics"
	redisStorage "subscription-ledger/internal/adapter/storage/redis"
	"subscription-ledger/internal/adapter/venue"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/internal/scheduler"
	"subscription-ledger/internal/service"
	"subscription-ledger/pkg/logger"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("SLD_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Str("venue", cfg.Venue.Kind).
		Msg("Starting Subscription Ledger")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("jwt.secret must be set (SLD_JWT_SECRET)")
	}

	ctx := context.Background()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer st.close()

	// Redis backs the session-token cache, the job lock and rate limiting.
	var (
		rdb        *goredis.Client
		tokenCache ports.SessionTokenCache
		jobLock    ports.JobLock
		rateLimits middleware.RateLimitStore
	)
	healthCheckers := st.health
	if cfg.Redis.Enabled {
		rdb, err = redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		tokenCache = redisStorage.NewSessionTokenCache(rdb)
		jobLock = redisStorage.NewJobLock(rdb)
		rateLimits = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		log.Warn().Msg("Redis disabled: no rate limiting, no cross-instance job lock")
	}

	// Event bus
	var publisher ports.EventPublisher = rabbitmq.NewLogPublisher(log)
	if cfg.AMQP.URL != "" {
		p, err := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, events will only be stored and logged")
		} else {
			publisher = p
			log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("RabbitMQ publisher ready")
		}
	}
	defer publisher.Close()

	// Metrics
	var (
		promMetrics   *metrics.Metrics
		ledgerMetrics ports.LedgerMetrics
		httpMetrics   middleware.HTTPMetrics
		jobMetrics    scheduler.JobMetrics
		metricsRoute  http.Handler
	)
	if cfg.Metrics.Enabled {
		promMetrics = metrics.New()
		ledgerMetrics = promMetrics
		httpMetrics = promMetrics
		jobMetrics = promMetrics
		metricsRoute = promMetrics.Handler()
	}

	adapter, err := venue.New(cfg.Venue, st.balances, st.ledger, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize yield venue")
	}

	// Merchant webhooks
	var (
		webhookSvc *service.WebhookServiceImpl
		webhooks   ports.WebhookService
		notifiers  []ports.EventNotifier
	)
	if cfg.Webhook.Enabled {
		enc, err := service.NewAESEncryptionService(cfg.Webhook.EncryptionKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid webhook encryption key")
		}
		webhookSvc = service.NewWebhookService(
			st.webhooks,
			enc,
			service.NewHMACSignatureService(),
			&http.Client{Timeout: cfg.Webhook.Timeout},
			log,
		)
		webhooks = webhookSvc
		notifiers = append(notifiers, webhookSvc)
		log.Info().Msg("Merchant webhooks enabled")
	}

	// Core services
	events := service.NewEventService(st.events, publisher, log, notifiers...)
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	protocolSvc := service.NewProtocolService(st.protocol, st.transactor, events, log)
	vaultSvc := service.NewVaultService(
		st.vaults,
		st.wallets,
		st.protocol,
		st.balances,
		st.ledger,
		adapter,
		st.transactor,
		events,
		ledgerMetrics,
		log,
	)
	walletSvc := service.NewWalletService(
		st.wallets,
		st.subscriptions,
		st.balances,
		st.ledger,
		vaultSvc,
		st.transactor,
		events,
		log,
	)
	subscriptionSvc := service.NewSubscriptionService(
		st.plans,
		st.subscriptions,
		st.wallets,
		st.sessionTokens,
		tokenCache,
		st.balances,
		st.transactor,
		events,
		log,
	)
	paymentSvc := service.NewPaymentService(
		st.subscriptions,
		st.plans,
		st.wallets,
		st.protocol,
		st.balances,
		st.ledger,
		vaultSvc,
		st.transactor,
		events,
		ledgerMetrics,
		log,
	)

	analyticsSvc := service.NewAnalyticsService(st.analytics)

	// Background jobs
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs := scheduler.NewJobs(paymentSvc, vaultSvc, st.vaults, events, jobLock, jobMetrics, cfg.Scheduler, log)
		sched = scheduler.NewScheduler(jobs, log, cfg.Scheduler)
		if err := sched.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule background jobs")
		}
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		ProtocolSvc:     protocolSvc,
		VaultSvc:        vaultSvc,
		WalletSvc:       walletSvc,
		PaymentSvc:      paymentSvc,
		SubscriptionSvc: subscriptionSvc,
		WebhookSvc:      webhooks,
		AnalyticsSvc:    analyticsSvc,
		TokenSvc:        tokenSvc,
		HealthCheckers:  healthCheckers,
		RateLimitStore:  rateLimits,
		Events:          events,
		HTTPMetrics:     httpMetrics,
		MetricsHandler:  metricsRoute,
		MetricsPath:     cfg.Metrics.Path,
		Logger:          log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if sched != nil {
		waitForJobs(shutdownCtx, sched, log)
	}
	if webhookSvc != nil {
		webhookSvc.Close()
	}

	log.Info().Msg("Server exited")
}

func waitForJobs(ctx context.Context, sched *scheduler.Scheduler, log zerolog.Logger) {
	select {
	case <-sched.Stop().Done():
	case <-ctx.Done():
		log.Warn().Msg("Background jobs still running at shutdown")
	}
}
