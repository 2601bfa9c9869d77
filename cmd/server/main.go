package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/phoexer/openproject/common/id"
	"github.com/phoexer/openproject/common/logger"
	"github.com/phoexer/openproject/common/otel"
	"github.com/phoexer/openproject/core/config"
	"github.com/phoexer/openproject/core/db"
	"github.com/phoexer/openproject/internal/http/handler"
	"github.com/phoexer/openproject/internal/http/middleware"
	httprouter "github.com/phoexer/openproject/internal/http/router"
	"github.com/phoexer/openproject/internal/service"
	"github.com/phoexer/openproject/internal/store"
	"github.com/phoexer/openproject/internal/store/memdelivery"
	"github.com/phoexer/openproject/internal/store/redisdelivery"
	"github.com/phoexer/openproject/internal/webhook"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "openproject hooks starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(cfg.NodeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	pingers := map[string]handler.Pinger{"postgres": database}
	stores := store.NewStores(database.Queries())

	var deliveries store.DeliveryRecordStore
	switch cfg.Webhook.DedupBackend {
	case config.DedupBackendRedis:
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "redis connected", "prefix", cfg.Redis.KeyPrefix)
		pingers["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		deliveries = redisdelivery.New(redisClient, cfg.Redis.KeyPrefix)
	case config.DedupBackendMemory:
		slog.WarnContext(ctx, "delivery records kept in memory; redeliveries across restarts or replicas are not deduplicated")
		deliveries = memdelivery.New(cfg.Webhook.MemoryStoreSize, cfg.Webhook.MemoryStoreTTL)
	default:
		deliveries = stores.DeliveryRecords()
	}
	slog.InfoContext(ctx, "delivery record backend selected", "backend", cfg.Webhook.DedupBackend)

	services := service.NewServices(stores, service.NewTxRunner(database), deliveries)
	dispatcher := newDispatcher(cfg.Webhook, services, deliveries)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, dispatcher, pingers)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func newDispatcher(cfg config.WebhookConfig, services *service.Services, deliveries store.DeliveryRecordStore) *webhook.Dispatcher {
	return webhook.NewDispatcher(
		webhook.NewClassifier(),
		webhook.NewPermissionFilter(services.WorkPackages(), services.Authorization()),
		webhook.NewRecorder(services.Journals()),
		webhook.NewDeduplicator(deliveries, webhook.DedupConfig{
			InFlightTimeout: cfg.InFlightTimeout,
			PendingLease:    cfg.PendingLease,
		}),
		webhook.DispatcherConfig{
			AllowedHosts:  cfg.AllowedHosts,
			FailurePolicy: webhook.FailurePolicy(cfg.FailurePolicy),
		},
	)
}

func setupRouter(cfg config.Config, services *service.Services, dispatcher *webhook.Dispatcher, pingers map[string]handler.Pinger) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, dispatcher, httprouter.RouterConfig{
		GitHubSecret:    cfg.Webhook.GitHubSecret,
		RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
		Pingers:         pingers,
	})

	return router
}

const banner = `
 ___  ___ ___ _  _ ___ ___  ___     _ ___ ___ _____   _  _  ___   ___  _  _____
/ _ \| _ \ __| \| | _ \ _ \/ _ \ _ | | __/ __|_   _| | || |/ _ \ / _ \| |/ / __|
| (_) |  _/ _|| .  |  _/   / (_) | || | _| (__  | |   | __ | (_) | (_) | ' <\__ \
\___/|_| |___|_|\_|_| |_|_\\___/ \__/|___\___| |_|   |_||_|\___/ \___/|_|\_\___/
`
