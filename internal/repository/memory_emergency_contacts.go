package repository

import (
	"context"
	"sync"

	"silvercare/internal/domain"
)

// MemoryEmergencyContactsRepository backs dev runs without a database.
// Add is only used for seeding.
type MemoryEmergencyContactsRepository struct {
	mu       sync.RWMutex
	contacts map[int64][]domain.EmergencyContact
}

func NewMemoryEmergencyContactsRepository() *MemoryEmergencyContactsRepository {
	return &MemoryEmergencyContactsRepository{contacts: map[int64][]domain.EmergencyContact{}}
}

var _ EmergencyContactsRepository = (*MemoryEmergencyContactsRepository)(nil)

func (r *MemoryEmergencyContactsRepository) ListByUser(_ context.Context, userID int64) ([]domain.EmergencyContact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.EmergencyContact, len(r.contacts[userID]))
	copy(out, r.contacts[userID])
	return out, nil
}

func (r *MemoryEmergencyContactsRepository) Add(c domain.EmergencyContact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts[c.UserID] = append(r.contacts[c.UserID], c)
}
