package model

import "time"

// User represents a registered account. Points is the balance spent on
// point-based swaps; it only changes through swap settlement.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Points       int       `json:"points"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
