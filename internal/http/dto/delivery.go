package dto

import (
	"encoding/json"
	"time"

	"github.com/phoexer/openproject/internal/model"
)

type DeliveryResponse struct {
	DeliveryID string          `json:"delivery_id"`
	Provider   string          `json:"provider"`
	Status     string          `json:"status"`
	Outcome    json.RawMessage `json:"outcome,omitempty"`
	Error      *string         `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func ToDeliveryResponse(r *model.DeliveryRecord) *DeliveryResponse {
	return &DeliveryResponse{
		DeliveryID: r.DeliveryID,
		Provider:   r.Provider,
		Status:     string(r.Status),
		Outcome:    r.Outcome,
		Error:      r.Error,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
