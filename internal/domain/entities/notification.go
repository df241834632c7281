package entities

import (
	"encoding/json"
	"time"

	apperrors "github.com/tabelamed/backend/pkg/errors"
)

// NotificationType represents the notification purpose
type NotificationType string

const (
	// NotificationPackageShare is currently the only defined type
	NotificationPackageShare NotificationType = "package_share"
)

// SharePayload is the opaque payload carried by a package-share notification
type SharePayload struct {
	PackageID    string      `json:"package_id"`
	PackageName  string      `json:"package_name"`
	PackageType  PackageKind `json:"package_type"`
	FromUserID   string      `json:"from_user_id"`
	FromUserName string      `json:"from_user_name"`
}

// Notification is one entry of a user's inbox. Created on behalf of the
// sender by the sharing protocol; mutated or deleted by the recipient only.
type Notification struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Payload   SharePayload     `json:"payload"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// ParseSharePayload normalizes a share payload at the protocol boundary.
// Payloads arrive either as already-structured data or as a JSON-encoded
// string (possibly double-encoded); both forms are accepted transparently.
func ParseSharePayload(v any) (*SharePayload, error) {
	switch t := v.(type) {
	case nil:
		return nil, apperrors.NewValidationError("share payload is missing")
	case *SharePayload:
		return t, nil
	case SharePayload:
		return &t, nil
	case string:
		return decodeSharePayload([]byte(t))
	case []byte:
		return decodeSharePayload(t)
	case json.RawMessage:
		return decodeSharePayload(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return nil, apperrors.NewValidationError("share payload is not decodable")
		}
		return decodeSharePayload(data)
	}
}

func decodeSharePayload(data []byte) (*SharePayload, error) {
	// A payload serialized twice arrives as a JSON string; unwrap it first.
	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		data = []byte(encoded)
	}

	var payload SharePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, apperrors.NewValidationError("share payload is not valid JSON")
	}
	return &payload, nil
}
