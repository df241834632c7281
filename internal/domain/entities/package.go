package entities

import "time"

// PackageKind distinguishes the two package variants carried in share
// payloads and share records
type PackageKind string

const (
	KindStandard PackageKind = "standard"
	KindPrivate  PackageKind = "private"
)

// ProcedurePackage is a named, reusable bundle of catalog procedure ids
// owned by a single user. Procedure ids may reference catalog entries that
// no longer exist; resolution drops them silently.
type ProcedurePackage struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	ProcedureIDs []string  `json:"procedure_ids"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// PrivatePackage extends the standard package with OPME references and
// per-role fee values
type PrivatePackage struct {
	ID               string    `json:"id" db:"id"`
	UserID           string    `json:"user_id" db:"user_id"`
	Name             string    `json:"name" db:"name"`
	Description      string    `json:"description" db:"description"`
	ProcedureIDs     []string  `json:"procedure_ids"`
	OpmeIDs          []string  `json:"opme_ids"`
	SurgeonValue     float64   `json:"surgeon_value" db:"surgeon_value"`
	AnesthetistValue float64   `json:"anesthetist_value" db:"anesthetist_value"`
	AssistantValue   float64   `json:"assistant_value" db:"assistant_value"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
