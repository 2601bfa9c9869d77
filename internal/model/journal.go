package model

import "time"

// Journal is an append-only audit entry on a work package. At most one
// exists per (DeliveryID, WorkPackageID).
type Journal struct {
	ID            int64     `json:"id"`
	WorkPackageID int64     `json:"work_package_id"`
	UserID        int64     `json:"user_id"`
	DeliveryID    string    `json:"delivery_id"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}
