package repository

import (
	"context"
	"sync"
	"time"

	"silvercare/internal/domain"
)

type MemoryFeedbackRepository struct {
	mu     sync.Mutex
	nextID int64
	items  []domain.Feedback
}

func NewMemoryFeedbackRepository() *MemoryFeedbackRepository {
	return &MemoryFeedbackRepository{nextID: 1}
}

var _ FeedbackRepository = (*MemoryFeedbackRepository)(nil)

func (r *MemoryFeedbackRepository) Create(_ context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := *fb
	out.ID = r.nextID
	out.CreatedAt = time.Now().UTC()
	r.nextID++
	r.items = append(r.items, out)
	return &out, nil
}

func (r *MemoryFeedbackRepository) Summary(_ context.Context) (domain.FeedbackSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.items) == 0 {
		return domain.FeedbackSummary{}, nil
	}
	total := 0
	for _, it := range r.items {
		total += it.Rating
	}
	return domain.FeedbackSummary{
		Average: float64(total) / float64(len(r.items)),
		Count:   len(r.items),
	}, nil
}
