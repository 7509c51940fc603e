package repository

import (
	"context"

	"silvercare/internal/domain"
)

type FeedbackRepository interface {
	Create(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error)
	Summary(ctx context.Context) (domain.FeedbackSummary, error)
}
