package repository

import (
	"context"
	"sync"

	"silvercare/internal/domain"
)

// MemoryMedicationsRepository is used when the database is disabled or unreachable.
// Records are kept in insertion order.
type MemoryMedicationsRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records []domain.MedicationRecord
	byID    map[int64]int // id -> index in records
}

func NewMemoryMedicationsRepository() *MemoryMedicationsRepository {
	return &MemoryMedicationsRepository{nextID: 1, byID: map[int64]int{}}
}

var _ MedicationsRepository = (*MemoryMedicationsRepository)(nil)

func (r *MemoryMedicationsRepository) ListByUser(_ context.Context, userID int64) ([]domain.MedicationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.MedicationRecord{}
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *MemoryMedicationsRepository) Get(_ context.Context, id int64) (*domain.MedicationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound("medication not found", nil)
	}
	rec := r.records[idx]
	return &rec, nil
}

func (r *MemoryMedicationsRepository) Create(_ context.Context, rec *domain.MedicationRecord) (*domain.MedicationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := *rec
	out.ID = r.nextID
	r.nextID++
	r.byID[out.ID] = len(r.records)
	r.records = append(r.records, out)
	return &out, nil
}

func (r *MemoryMedicationsRepository) UpdateStatus(_ context.Context, id int64, from, to domain.MedicationStatus) (*domain.MedicationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byID[id]
	if !ok || r.records[idx].Status != from {
		return nil, domain.NotFound("medication not found", nil)
	}
	r.records[idx].Status = to
	rec := r.records[idx]
	return &rec, nil
}

func (r *MemoryMedicationsRepository) ListPendingAt(_ context.Context, scheduledTime string) ([]domain.MedicationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.MedicationRecord{}
	for _, rec := range r.records {
		if rec.Status == domain.StatusPending && rec.ScheduledTime == scheduledTime {
			out = append(out, rec)
		}
	}
	return out, nil
}
