package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phoexer/openproject/internal/http/dto"
	"github.com/phoexer/openproject/internal/http/middleware"
	"github.com/phoexer/openproject/internal/service"
	"github.com/phoexer/openproject/internal/store"
)

type DeliveryHandler struct {
	deliveryService service.DeliveryService
}

func NewDeliveryHandler(deliveryService service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

func (h *DeliveryHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	deliveryID := c.Param("delivery_id")

	record, err := h.deliveryService.Get(ctx, middleware.GetUser(ctx), deliveryID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "delivery not found"})
		default:
			slog.ErrorContext(ctx, "failed to get delivery", "error", err, "delivery_id", deliveryID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get delivery"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToDeliveryResponse(record))
}
