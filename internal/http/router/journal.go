package router

import (
	"github.com/gin-gonic/gin"

	"github.com/phoexer/openproject/internal/http/handler"
)

func JournalRouter(rg *gin.RouterGroup, h *handler.JournalHandler) {
	rg.GET("/:id/journals", h.List)
}

func DeliveryRouter(rg *gin.RouterGroup, h *handler.DeliveryHandler) {
	rg.GET("/:delivery_id", h.Get)
}
