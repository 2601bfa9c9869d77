package router

import (
	"github.com/gin-gonic/gin"

	"github.com/phoexer/openproject/internal/http/handler"
	"github.com/phoexer/openproject/internal/http/handler/webhook"
	"github.com/phoexer/openproject/internal/http/middleware"
	"github.com/phoexer/openproject/internal/service"
)

type RouterConfig struct {
	GitHubSecret    string
	RateLimitPerMin int
	Pingers         map[string]handler.Pinger
}

func SetupRoutes(router *gin.Engine, services *service.Services, processor webhook.Processor, cfg RouterConfig) {
	health := handler.NewHealthHandler(cfg.Pingers)
	router.GET("/health", health.Live)
	router.GET("/ready", health.Ready)

	requireKey := middleware.RequireAPIKey(services.Auth())

	hooks := router.Group("/webhooks")
	if cfg.RateLimitPerMin > 0 {
		hooks.Use(middleware.RateLimit(cfg.RateLimitPerMin))
	}
	hooks.Use(requireKey)
	WebhookRouter(hooks, webhook.NewGitHubWebhookHandler(processor, cfg.GitHubSecret))

	v1 := router.Group("/api/v1", requireKey)
	{
		JournalRouter(v1.Group("/work_packages"), handler.NewJournalHandler(services.Journals()))
		DeliveryRouter(v1.Group("/webhooks/deliveries"), handler.NewDeliveryHandler(services.Deliveries()))
	}
}
