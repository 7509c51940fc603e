package service

import (
	"context"
	"errors"
	"sync"

	"silvercare/internal/domain"
	"silvercare/internal/notify"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []notify.Message
	fail map[string]bool // by recipient
	err  error          // fails every send when set
}

func (s *recordingSender) Send(_ context.Context, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	if s.err != nil {
		return s.err
	}
	if s.fail[msg.To] {
		return errors.New("carrier rejected message")
	}
	return nil
}

func (s *recordingSender) sent() []notify.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

// brokenContacts simulates an unreachable contacts table.
type brokenContacts struct{}

func (brokenContacts) ListByUser(context.Context, int64) ([]domain.EmergencyContact, error) {
	return nil, domain.StoreUnavailable("failed to list emergency contacts", errors.New("connection refused"))
}

// brokenMedications fails every call with StoreUnavailable.
type brokenMedications struct{}

func (brokenMedications) err() error {
	return domain.StoreUnavailable("failed to query medications", errors.New("connection refused"))
}

func (b brokenMedications) ListByUser(context.Context, int64) ([]domain.MedicationRecord, error) {
	return nil, b.err()
}

func (b brokenMedications) Get(context.Context, int64) (*domain.MedicationRecord, error) {
	return nil, b.err()
}

func (b brokenMedications) Create(context.Context, *domain.MedicationRecord) (*domain.MedicationRecord, error) {
	return nil, b.err()
}

func (b brokenMedications) UpdateStatus(context.Context, int64, domain.MedicationStatus, domain.MedicationStatus) (*domain.MedicationRecord, error) {
	return nil, b.err()
}

func (b brokenMedications) ListPendingAt(context.Context, string) ([]domain.MedicationRecord, error) {
	return nil, b.err()
}
