package model

import "time"

type User struct {
	ID        int64     `json:"id"`
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Admin     bool      `json:"admin"`
	Locked    bool      `json:"locked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the user may act through the API.
func (u *User) Active() bool {
	return u != nil && !u.Locked
}
