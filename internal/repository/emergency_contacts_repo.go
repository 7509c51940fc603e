package repository

import (
	"context"

	"silvercare/internal/domain"
)

// EmergencyContactsRepository is read-only; contacts are managed outside this service.
type EmergencyContactsRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.EmergencyContact, error)
}
