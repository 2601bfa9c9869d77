package model

import "time"

type WorkPackage struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
