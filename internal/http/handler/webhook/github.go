package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v66/github"

	"github.com/phoexer/openproject/internal/http/middleware"
	hook "github.com/phoexer/openproject/internal/webhook"
)

const (
	providerGitHub = "github"
	eventPing      = "ping"
)

type Processor interface {
	Process(ctx context.Context, req hook.Request) (*hook.Outcome, error)
}

type GitHubWebhookHandler struct {
	processor Processor
	secret    []byte
}

// NewGitHubWebhookHandler builds the GitHub delivery endpoint. An empty
// secret disables signature validation.
func NewGitHubWebhookHandler(processor Processor, secret string) *GitHubWebhookHandler {
	return &GitHubWebhookHandler{
		processor: processor,
		secret:    []byte(secret),
	}
}

func (h *GitHubWebhookHandler) HandleEvent(c *gin.Context) {
	ctx := c.Request.Context()

	user := middleware.GetUser(ctx)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "unauthorized"})
		return
	}

	body, err := github.ValidatePayload(c.Request, h.secret)
	if err != nil {
		slog.WarnContext(ctx, "github webhook rejected", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"status": "invalid signature"})
		return
	}

	eventType := github.WebHookType(c.Request)
	deliveryID := github.DeliveryID(c.Request)

	if eventType == eventPing {
		c.JSON(http.StatusOK, gin.H{"status": "pong"})
		return
	}

	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		slog.WarnContext(ctx, "github webhook body is not a json object",
			"error", err,
			"delivery_id", deliveryID,
			"event_type", eventType,
		)
		c.JSON(http.StatusBadRequest, gin.H{"status": "invalid payload"})
		return
	}

	out, err := h.processor.Process(ctx, hook.Request{
		Provider:   providerGitHub,
		EventType:  eventType,
		DeliveryID: deliveryID,
		Payload:    payload,
		Actor:      user,
	})
	if err != nil {
		status, code := statusFor(err)
		if code >= http.StatusInternalServerError {
			slog.ErrorContext(ctx, "github webhook processing failed", "error", err, "delivery_id", deliveryID)
		} else {
			slog.WarnContext(ctx, "github webhook not processed", "error", err, "delivery_id", deliveryID)
		}
		c.JSON(code, gin.H{"status": status})
		return
	}

	switch {
	case out.Ignored:
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	case out.Replayed:
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Response bodies carry a status only. Counts would reveal which work
// packages exist to an actor who cannot see them.
func statusFor(err error) (string, int) {
	switch {
	case errors.Is(err, hook.ErrDeliveryInFlight):
		return "in_flight", http.StatusConflict
	case errors.Is(err, hook.ErrMalformedPayload):
		return "malformed", http.StatusUnprocessableEntity
	case errors.Is(err, hook.ErrMissingActor):
		return "unauthorized", http.StatusUnauthorized
	case errors.Is(err, hook.ErrDeliveryFailed):
		return "failed", http.StatusInternalServerError
	default:
		return "error", http.StatusInternalServerError
	}
}
