package router

import (
	"github.com/gin-gonic/gin"

	"github.com/phoexer/openproject/internal/http/handler/webhook"
)

func WebhookRouter(rg *gin.RouterGroup, github *webhook.GitHubWebhookHandler) {
	rg.POST("/github", github.HandleEvent)
}
