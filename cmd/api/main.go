package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/10037-kasarango1/Conjunta/docs/swagger"
	"github.com/10037-kasarango1/Conjunta/pkg/app"
	"github.com/10037-kasarango1/Conjunta/pkg/cache"
	"github.com/10037-kasarango1/Conjunta/pkg/config"
	"github.com/10037-kasarango1/Conjunta/pkg/database"
	"github.com/10037-kasarango1/Conjunta/pkg/errhttp"
	"github.com/10037-kasarango1/Conjunta/pkg/events"
	"github.com/10037-kasarango1/Conjunta/pkg/httpx"
	"github.com/10037-kasarango1/Conjunta/pkg/logger"
	"github.com/10037-kasarango1/Conjunta/pkg/telemetry"
	inventoryApi "github.com/10037-kasarango1/Conjunta/services/inventory/application/api"
)

// @title					Inventory API
// @version				1.0
// @description			Product inventory with an append-only quantity change history.
// @license.name			MIT
// @license.url			https://opensource.org/licenses/MIT
// @host					localhost:8080
// @BasePath				/api
// @schemes				http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	// Telemetry: OTel tracing + metrics
	ctx := context.Background()
	otelProviders, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelProviders.Shutdown(ctx) //nolint:errcheck

	// Crash reporting: Sentry (optional, log and continue on failure)
	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	appConfig := &app.Application{
		Config:  cfg,
		Logger:  log,
		Metrics: otelProviders.Metrics,
	}
	checks := httpx.HealthChecks{Store: cfg.StoreBackend, Version: cfg.ServiceVersion}

	if cfg.UsesMemoryStore() {
		log.Warn("using in-memory store, data is lost on restart")
	} else {
		pool, err := database.NewPool(ctx, cfg.DefinitionDatabaseURL, log)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer pool.Close()
		log.Info("database pool connected")

		eventBus, err := events.NewEventBusWithForwarder(cfg, log)
		if err != nil {
			log.Error("failed to setup event bus", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer eventBus.Close() //nolint:errcheck

		if err := eventBus.StartForwarder(ctx); err != nil {
			log.Error("failed to start event forwarder", "error", err)
			os.Exit(1) //nolint:gocritic
		}

		appConfig.Db = pool
		appConfig.EventBus = eventBus
		checks.Database = pool
		checks.EventBus = eventBus
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
		appConfig.Redis = redisClient
		checks.Redis = redisClient
		log.Info("redis connected")
	} else {
		log.Info("product cache disabled")
	}

	serverCfg := httpx.ServerConfig{
		ServiceName:        cfg.ServiceName,
		IsDevelopment:      cfg.Environment == config.EnvDevelopment,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RequestsPerMinute:  cfg.RateLimitPerMinute,
		MaxBodyBytes:       cfg.MaxBodyBytes,
		RequestTimeout:     cfg.RequestTimeout,
	}
	errhttp.HideInternalErrors(cfg.Environment == config.EnvProduction)

	r := httpx.NewRouter(serverCfg, httpx.Middlewares{
		Recovery: logger.Recovery(log),
		Sentry:   telemetry.SentryMiddleware(),
		Otel:     otelhttp.NewMiddleware(cfg.ServiceName),
		Logger:   logger.Middleware(log),
	})

	r.Get("/health", httpx.HealthHandler(checks))
	r.Get("/metrics", otelProviders.MetricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		registerRoutes(r, appConfig)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r, serverCfg)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// registerRoutes mounts all service routes under /api.
// Add each new service's route function here.
func registerRoutes(r chi.Router, a *app.Application) {
	inventoryApi.InventoryRoutes(r, a)
}
