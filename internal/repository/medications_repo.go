package repository

import (
	"context"

	"silvercare/internal/domain"
)

// MedicationsRepository stores medication records.
type MedicationsRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.MedicationRecord, error)
	Get(ctx context.Context, id int64) (*domain.MedicationRecord, error)
	// Create assigns the id. Status must already be set by the caller.
	Create(ctx context.Context, rec *domain.MedicationRecord) (*domain.MedicationRecord, error)
	// UpdateStatus is a compare-and-set: it only writes when the stored status
	// equals from. A missing id or a changed status both yield domain.ErrNotFound.
	UpdateStatus(ctx context.Context, id int64, from, to domain.MedicationStatus) (*domain.MedicationRecord, error)
	// ListPendingAt returns pending doses whose scheduled_time equals scheduledTime.
	ListPendingAt(ctx context.Context, scheduledTime string) ([]domain.MedicationRecord, error)
}
