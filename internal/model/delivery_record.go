package model

import (
	"encoding/json"
	"time"
)

type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusSucceeded DeliveryStatus = "succeeded"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

func (s DeliveryStatus) Done() bool {
	return s == DeliveryStatusSucceeded || s == DeliveryStatusFailed
}

type DeliveryRecord struct {
	DeliveryID string          `json:"delivery_id"`
	Provider   string          `json:"provider"`
	Status     DeliveryStatus  `json:"status"`
	Outcome    json.RawMessage `json:"outcome,omitempty"`
	Error      *string         `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
