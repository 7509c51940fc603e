package service

import (
	"context"
	"strings"

	"silvercare/internal/domain"
	"silvercare/internal/repository"

	"go.uber.org/zap"
)

type SubmitFeedbackRequest struct {
	UserID  int64  `json:"user_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

type FeedbackService struct {
	repo   repository.FeedbackRepository
	logger *zap.Logger
}

func NewFeedbackService(repo repository.FeedbackRepository, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{repo: repo, logger: logger}
}

func (s *FeedbackService) Submit(ctx context.Context, req SubmitFeedbackRequest) (*domain.Feedback, error) {
	if req.UserID <= 0 {
		return nil, domain.Validation("user_id must be a positive integer")
	}
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return nil, domain.Validation("rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(req.Comment)
	if len(comment) > 1000 {
		return nil, domain.Validation("comment is too long")
	}

	fb, err := s.repo.Create(ctx, &domain.Feedback{UserID: req.UserID, Rating: req.Rating, Comment: comment})
	if err != nil {
		return nil, err
	}
	s.logger.Info("feedback submitted", zap.Int64("user_id", fb.UserID), zap.Int("rating", fb.Rating))
	return fb, nil
}

func (s *FeedbackService) Summary(ctx context.Context) (domain.FeedbackSummary, error) {
	return s.repo.Summary(ctx)
}
