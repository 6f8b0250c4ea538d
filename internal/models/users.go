package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // user or admin
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user is a site administrator.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
