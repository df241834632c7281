package entities

import "time"

// User is a registered account. Authentication is external; the backend
// only reads user rows to resolve display names for share notifications.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
