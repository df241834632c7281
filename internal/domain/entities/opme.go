package entities

import "time"

// OpmeItem is an implantable/consumable surgical material tracked separately
// from procedures. Private packages reference items by id; a dangling
// reference is dropped from computed views, never an error.
type OpmeItem struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Value       float64   `json:"value" db:"value"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
