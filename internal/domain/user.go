package domain

import "time"

// User represents a registered account.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string
	ProfilePicture string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
