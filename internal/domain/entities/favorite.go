package entities

import "time"

// Favorite is a (user, catalog procedure) pair. Stale procedure ids are
// skipped when favorites are resolved against the live catalog.
type Favorite struct {
	UserID      string    `json:"user_id" db:"user_id"`
	ProcedureID string    `json:"procedure_id" db:"procedure_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
