package models

import "time"

// ReviewItem is a missed question scheduled for spaced repetition.
// A nil DueDate means the item is due immediately.
type ReviewItem struct {
	StudentID    string           `json:"-"`
	QuestionID   string           `json:"question_id"`
	Snapshot     QuestionSnapshot `json:"snapshot"`
	IntervalDays int              `json:"interval_days"`
	DueDate      *time.Time       `json:"due_date"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type ReviewOutcome struct {
	QuestionID   string     `json:"question_id"`
	Retired      bool       `json:"retired"`
	IntervalDays int        `json:"interval_days"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}

type DueReviewsResponse struct {
	Items []ReviewItem `json:"items"`
	Count int          `json:"count"`
}
