package domain

import (
	"fmt"
	"time"
)

// SosEvent records one dispatch of emergency alerts.
type SosEvent struct {
	EventID         string    `json:"event_id"`
	UserID          int64     `json:"user_id"`
	Lat             *float64  `json:"lat,omitempty"`
	Lng             *float64  `json:"lng,omitempty"`
	ContactsAlerted int       `json:"contacts_alerted"`
	TriggeredAt     time.Time `json:"triggered_at"`
}

// SosAlertText is the body sent to each emergency contact.
func SosAlertText(contactName string, userID int64, lat, lng *float64) string {
	msg := fmt.Sprintf("SilverCare EMERGENCY: %s, user %d has triggered an SOS alert.", contactName, userID)
	if lat != nil && lng != nil {
		msg += fmt.Sprintf(" Last known location: https://maps.google.com/?q=%.6f,%.6f", *lat, *lng)
	} else {
		msg += " Location unavailable."
	}
	return msg
}
