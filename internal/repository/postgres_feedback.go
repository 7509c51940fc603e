package repository

import (
	"context"
	"database/sql"

	"silvercare/internal/domain"
)

type PostgresFeedbackRepository struct {
	db *sql.DB
}

func NewPostgresFeedbackRepository(db *sql.DB) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{db: db}
}

var _ FeedbackRepository = (*PostgresFeedbackRepository)(nil)

func (r *PostgresFeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	query := `
		INSERT INTO feedback (user_id, rating, comment)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id, created_at
	`
	out := *fb
	if err := r.db.QueryRowContext(ctx, query, fb.UserID, fb.Rating, fb.Comment).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, domain.StoreUnavailable("failed to create feedback", err)
	}
	return &out, nil
}

func (r *PostgresFeedbackRepository) Summary(ctx context.Context) (domain.FeedbackSummary, error) {
	query := `SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM feedback`
	var s domain.FeedbackSummary
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.Average, &s.Count); err != nil {
		return domain.FeedbackSummary{}, domain.StoreUnavailable("failed to summarize feedback", err)
	}
	return s, nil
}
