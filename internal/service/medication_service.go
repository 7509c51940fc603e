package service

import (
	"context"
	"errors"
	"strings"

	"silvercare/internal/domain"
	"silvercare/internal/metrics"
	"silvercare/internal/repository"

	"go.uber.org/zap"
)

// MedicationService owns the medication schedule and its status transitions.
type MedicationService struct {
	repo   repository.MedicationsRepository
	logger *zap.Logger
}

func NewMedicationService(repo repository.MedicationsRepository, logger *zap.Logger) *MedicationService {
	return &MedicationService{repo: repo, logger: logger}
}

// CreateMedicationRequest mirrors the POST /medicines body.
type CreateMedicationRequest struct {
	UserID        int64  `json:"user_id"`
	MedicineName  string `json:"medicine_name"`
	Dosage        string `json:"dosage"`
	ScheduledTime string `json:"scheduled_time"`
	Status        string `json:"status,omitempty"`
}

// UpdateStatusResponse is the updated record plus the notice for the UI.
type UpdateStatusResponse struct {
	domain.MedicationRecord
	Notice domain.Notice `json:"notice"`
}

// MedicationSummary is the adherence overview for one user.
type MedicationSummary struct {
	domain.StatusCounts
	RiskLevel domain.RiskLevel `json:"risk_level"`
	Advice    string           `json:"advice"`
}

func (s *MedicationService) List(ctx context.Context, userID int64) ([]domain.MedicationRecord, error) {
	if userID <= 0 {
		return nil, domain.Validation("user_id must be a positive integer")
	}
	return s.repo.ListByUser(ctx, userID)
}

// Create stores a new pending dose. An omitted status defaults to pending;
// any other explicit status is rejected.
func (s *MedicationService) Create(ctx context.Context, req CreateMedicationRequest) (*domain.MedicationRecord, error) {
	req.MedicineName = strings.TrimSpace(req.MedicineName)
	req.Dosage = strings.TrimSpace(req.Dosage)
	req.ScheduledTime = strings.TrimSpace(req.ScheduledTime)

	if req.UserID <= 0 {
		return nil, domain.Validation("user_id must be a positive integer")
	}
	if req.MedicineName == "" {
		return nil, domain.Validation("medicine_name is required")
	}
	if req.ScheduledTime == "" {
		return nil, domain.Validation("scheduled_time is required")
	}

	status := domain.MedicationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if status == "" {
		status = domain.StatusPending
	}
	if status != domain.StatusPending {
		return nil, domain.Validation("a new medication must start as pending")
	}

	rec, err := s.repo.Create(ctx, &domain.MedicationRecord{
		UserID:        req.UserID,
		MedicineName:  req.MedicineName,
		Dosage:        req.Dosage,
		ScheduledTime: req.ScheduledTime,
		Status:        status,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("medication created", zap.Int64("id", rec.ID), zap.Int64("user_id", rec.UserID))
	return rec, nil
}

// UpdateStatus applies a pending -> taken|missed transition.
func (s *MedicationService) UpdateStatus(ctx context.Context, id int64, status string) (*UpdateStatusResponse, error) {
	if id <= 0 {
		return nil, domain.Validation("id must be a positive integer")
	}
	target := domain.MedicationStatus(strings.ToLower(strings.TrimSpace(status)))
	if !target.Valid() {
		return nil, domain.Validation("status must be one of pending, taken, missed")
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, notice, err := domain.Transition(*current, target)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.UpdateStatus(ctx, id, current.Status, next.Status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// the row existed a moment ago, so someone else moved it out of pending
			return nil, domain.InvalidTransition(current.Status, target)
		}
		return nil, err
	}

	metrics.MedicationTransitions.WithLabelValues(string(saved.Status)).Inc()
	s.logger.Info("medication status updated",
		zap.Int64("id", saved.ID),
		zap.Int64("user_id", saved.UserID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(saved.Status)),
	)
	return &UpdateStatusResponse{MedicationRecord: *saved, Notice: notice}, nil
}

// Summary derives counts and risk from the current records on every call.
func (s *MedicationService) Summary(ctx context.Context, userID int64) (*MedicationSummary, error) {
	records, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	level := domain.RiskLevelOf(records)
	return &MedicationSummary{
		StatusCounts: domain.CountByStatus(records),
		RiskLevel:    level,
		Advice:       domain.RiskAdvice(level),
	}, nil
}
