package entities

import "time"

// ShareStatus represents the state of one share attempt. Transitions are
// monotonic: pending moves to accepted or rejected and never reverts.
type ShareStatus string

const (
	ShareStatusPending  ShareStatus = "pending"
	ShareStatusAccepted ShareStatus = "accepted"
	ShareStatusRejected ShareStatus = "rejected"
)

// SharedPackage is one row per share attempt between two users
type SharedPackage struct {
	ID          string      `json:"id" db:"id"`
	PackageID   string      `json:"package_id" db:"package_id"`
	PackageType PackageKind `json:"package_type" db:"package_type"`
	FromUser    string      `json:"from_user" db:"from_user"`
	ToUser      string      `json:"to_user" db:"to_user"`
	Status      ShareStatus `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}
