package model

import "time"

type UserRole string

const (
	Instructor UserRole = "instructor"
	Learner    UserRole = "learner"
)

// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public strips credentials for API responses.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
