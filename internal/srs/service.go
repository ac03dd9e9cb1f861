package srs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/MarcoGiova99/tutor/internal/models"
)

var ErrNotDue = errors.New("review item is not due yet")

var tracer = otel.Tracer("github.com/MarcoGiova99/tutor/internal/srs")

type ItemStore interface {
	UpsertItems(ctx context.Context, items []models.ReviewItem) error
	ListDue(ctx context.Context, studentID string, now time.Time) ([]models.ReviewItem, error)
	Apply(ctx context.Context, studentID, questionID string, fn func(models.ReviewItem) (models.ReviewItem, bool, error)) (models.ReviewItem, bool, error)
}

// ActivityRecorder is credited with one srs review per completed review.
type ActivityRecorder interface {
	ApplyActivity(ctx context.Context, studentID string, delta models.ActivityDelta) (models.ActivityResult, error)
}

// TxRunner runs fn in a transaction that stores called with the passed
// context join.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

type Service struct {
	store    ItemStore
	activity ActivityRecorder
	tx       TxRunner
	log      *zap.Logger
	now      func() time.Time
}

func NewService(store ItemStore, activity ActivityRecorder, tx TxRunner, log *zap.Logger) *Service {
	return &Service{store: store, activity: activity, tx: tx, log: log.Named("srs"), now: time.Now}
}

// RecordMisses schedules every missed answer for review today and returns
// how many items were written.
func (s *Service) RecordMisses(ctx context.Context, studentID string, misses []models.AnswerRecord) (int, error) {
	if len(misses) == 0 {
		return 0, nil
	}

	now := s.now()
	items := make([]models.ReviewItem, 0, len(misses))
	for _, rec := range misses {
		items = append(items, NewItem(studentID, rec, now))
	}

	if err := s.store.UpsertItems(ctx, items); err != nil {
		return 0, fmt.Errorf("save review items: %w", err)
	}
	return len(items), nil
}

func (s *Service) ListDue(ctx context.Context, studentID string) ([]models.ReviewItem, error) {
	items, err := s.store.ListDue(ctx, studentID, s.now())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.ReviewItem{}
	}
	return items, nil
}

// Review marks a due item as reviewed, moves it up the ladder and counts the
// review toward today's goals. Both writes commit together or not at all.
func (s *Service) Review(ctx context.Context, studentID, questionID string) (models.ReviewOutcome, error) {
	ctx, span := tracer.Start(ctx, "srs.Review")
	defer span.End()
	span.SetAttributes(attribute.String("question.id", questionID))

	now := s.now()
	var (
		item    models.ReviewItem
		retired bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, _ pgx.Tx) error {
		var err error
		item, retired, err = s.store.Apply(ctx, studentID, questionID, func(item models.ReviewItem) (models.ReviewItem, bool, error) {
			if !IsDue(item, now) {
				return item, false, ErrNotDue
			}
			updated, retired := Review(item, now)
			return updated, retired, nil
		})
		if err != nil {
			return err
		}

		if _, err := s.activity.ApplyActivity(ctx, studentID, models.ActivityDelta{SRSReviews: 1}); err != nil {
			s.log.Error("failed to credit srs review",
				zap.String("student_id", studentID),
				zap.String("question_id", questionID),
				zap.Error(err),
			)
			return fmt.Errorf("apply activity: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return models.ReviewOutcome{}, err
	}

	out := models.ReviewOutcome{QuestionID: questionID, Retired: retired}
	if !retired {
		out.IntervalDays = item.IntervalDays
		out.DueDate = item.DueDate
	}
	span.SetAttributes(attribute.Bool("review.retired", retired))
	return out, nil
}
