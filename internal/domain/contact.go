package domain

// EmergencyContact maps to the emergency_contacts table.
type EmergencyContact struct {
	UserID      int64  `json:"user_id" db:"user_id"`           // BIGINT, NOT NULL
	ContactName string `json:"contact_name" db:"contact_name"` // VARCHAR(255), NOT NULL
	PhoneNumber string `json:"phone_number" db:"phone_number"` // VARCHAR(32), NOT NULL
}
