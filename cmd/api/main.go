package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SolutionSimple/obsicarte-backend/api/routes"
	"github.com/SolutionSimple/obsicarte-backend/internal/activation"
	"github.com/SolutionSimple/obsicarte-backend/internal/checkout"
	"github.com/SolutionSimple/obsicarte-backend/internal/profiles"
	"github.com/SolutionSimple/obsicarte-backend/internal/subscriptions"
	stripewebhook "github.com/SolutionSimple/obsicarte-backend/internal/webhooks/stripe"
	"github.com/SolutionSimple/obsicarte-backend/pkg/config"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db"
	"github.com/SolutionSimple/obsicarte-backend/pkg/logger"
	"github.com/SolutionSimple/obsicarte-backend/pkg/metrics"
	"github.com/SolutionSimple/obsicarte-backend/pkg/migrate"
	"github.com/SolutionSimple/obsicarte-backend/pkg/redis"
	"github.com/SolutionSimple/obsicarte-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	workflowMetrics := metrics.NewWorkflowMetrics(registry)

	activationService, err := activation.NewService(activation.ServiceParams{
		TxRunner: activation.NewTxRunner(dbClient),
		Password: cfg.Password,
		Metrics:  workflowMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create activation service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(stripeClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	profileService, err := profiles.NewService(
		profiles.NewRepository(dbClient.DB()),
		subscriptions.NewRepository(dbClient.DB()),
		cfg.Public.Origin,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		TransactionRunner: stripewebhook.NewTxRunner(dbClient),
		Logger:            logg,
		Metrics:           workflowMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Eventing.WebhookIdempotencyTTL, "stripe-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			activationService,
			checkoutService,
			profileService,
			stripeClient,
			webhookService,
			webhookGuard,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
