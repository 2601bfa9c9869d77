package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/phoexer/openproject/internal/http/dto"
	"github.com/phoexer/openproject/internal/http/middleware"
	"github.com/phoexer/openproject/internal/service"
	"github.com/phoexer/openproject/internal/store"
)

type JournalHandler struct {
	journalService service.JournalService
}

func NewJournalHandler(journalService service.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

func (h *JournalHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	workPackageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || workPackageID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work package id"})
		return
	}

	var req dto.ListJournalsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	journals, err := h.journalService.List(ctx, middleware.GetUser(ctx), workPackageID, req.Limit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "work package not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to list journals", "error", err, "work_package_id", workPackageID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list journals"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListJournalsResponse(journals))
}
