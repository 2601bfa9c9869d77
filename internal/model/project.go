package model

import "time"

type Project struct {
	ID         int64     `json:"id"`
	Identifier string    `json:"identifier"`
	Name       string    `json:"name"`
	Public     bool      `json:"public"`
	CreatedAt  time.Time `json:"created_at"`
}

type Permission string

const (
	PermissionViewWorkPackages Permission = "view_work_packages"
)
