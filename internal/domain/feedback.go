package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Feedback maps to the feedback table.
type Feedback struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"` // SMALLINT, CHECK 1..5
	Comment   string    `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type FeedbackSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
