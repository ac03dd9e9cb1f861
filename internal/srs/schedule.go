// Package srs schedules missed questions for review on a fixed interval
// ladder: 0, 1, 3 and 7 days. A correct review at 7 days retires the item.
package srs

import (
	"time"

	"github.com/MarcoGiova99/tutor/internal/models"
)

var ladder = []int{0, 1, 3, 7}

// IsDue reports whether item should be shown at now. Items without a due
// date are always due.
func IsDue(item models.ReviewItem, now time.Time) bool {
	return item.DueDate == nil || !item.DueDate.After(now)
}

// ClampInterval maps any stored interval onto the ladder by rounding down to
// the nearest rung.
func ClampInterval(days int) int {
	clamped := ladder[0]
	for _, rung := range ladder {
		if days >= rung {
			clamped = rung
		}
	}
	return clamped
}

// NextInterval returns the interval following current. It returns false when
// the item has climbed the whole ladder and should be retired.
func NextInterval(current int) (int, bool) {
	current = ClampInterval(current)
	for i, rung := range ladder {
		if rung == current && i+1 < len(ladder) {
			return ladder[i+1], true
		}
	}
	return 0, false
}

// Review advances item after a successful review at now. When retired is
// true the caller removes the item instead of storing the result.
func Review(item models.ReviewItem, now time.Time) (updated models.ReviewItem, retired bool) {
	next, ok := NextInterval(item.IntervalDays)
	if !ok {
		return item, true
	}

	due := now.AddDate(0, 0, next)
	item.IntervalDays = next
	item.DueDate = &due
	item.UpdatedAt = now
	return item, false
}

// NewItem creates the first review for a missed answer, due immediately.
func NewItem(studentID string, rec models.AnswerRecord, now time.Time) models.ReviewItem {
	due := now
	return models.ReviewItem{
		StudentID:    studentID,
		QuestionID:   rec.QuestionID,
		Snapshot:     rec.Snapshot,
		IntervalDays: 0,
		DueDate:      &due,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
