package gamification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MarcoGiova99/tutor/internal/database"
	"github.com/MarcoGiova99/tutor/internal/models"
)

// ActivityFunc computes the new record and streak from the stored ones.
// record is nil when the student has no activity for the day yet.
type ActivityFunc func(record *models.DailyActivity, streak models.StreakState) (models.DailyActivity, models.StreakState, error)

type Store struct {
	pool *pgxpool.Pool
	tx   *database.Transactor
}

func NewStore(pool *pgxpool.Pool, tx *database.Transactor) *Store {
	return &Store{pool: pool, tx: tx}
}

// ── Atomic Activity Update ──────────────────────────────

// UpdateActivity runs fn with the student's streak row locked, so concurrent
// updates for one student are serialized and none is lost.
func (s *Store) UpdateActivity(ctx context.Context, studentID string, day time.Time, fn ActivityFunc) (models.DailyActivity, models.StreakState, error) {
	var (
		rec    models.DailyActivity
		streak models.StreakState
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO student_streaks (student_id) VALUES ($1)
			 ON CONFLICT (student_id) DO NOTHING`,
			studentID,
		)
		if err != nil {
			return fmt.Errorf("upsert streak: %w", err)
		}

		current := models.StreakState{StudentID: studentID}
		err = tx.QueryRow(ctx,
			`SELECT current_streak, longest_streak, last_study_date, total_study_days
			 FROM student_streaks WHERE student_id = $1
			 FOR UPDATE`,
			studentID,
		).Scan(&current.CurrentStreak, &current.LongestStreak, &current.LastStudyDate, &current.TotalStudyDays)
		if err != nil {
			return fmt.Errorf("lock streak: %w", err)
		}

		existing, err := getActivity(ctx, tx, studentID, day)
		if err != nil {
			return err
		}

		rec, streak, err = fn(existing, current)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO daily_activity (student_id, activity_date, exercises, srs_reviews, study_time, completed, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (student_id, activity_date) DO UPDATE SET
			    exercises = EXCLUDED.exercises,
			    srs_reviews = EXCLUDED.srs_reviews,
			    study_time = EXCLUDED.study_time,
			    completed = EXCLUDED.completed,
			    updated_at = EXCLUDED.updated_at`,
			studentID, rec.Day, rec.Exercises, rec.SRSReviews, rec.StudyTime, rec.Completed, rec.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("save activity: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE student_streaks SET
			    current_streak = $2, longest_streak = $3,
			    last_study_date = $4, total_study_days = $5,
			    updated_at = NOW()
			 WHERE student_id = $1`,
			studentID, streak.CurrentStreak, streak.LongestStreak, streak.LastStudyDate, streak.TotalStudyDays,
		)
		if err != nil {
			return fmt.Errorf("save streak: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.DailyActivity{}, models.StreakState{}, err
	}
	return rec, streak, nil
}

// ── Reads ───────────────────────────────────────────────

func (s *Store) GetActivity(ctx context.Context, studentID string, day time.Time) (*models.DailyActivity, error) {
	return getActivity(ctx, s.pool, studentID, day)
}

func (s *Store) GetStreak(ctx context.Context, studentID string) (models.StreakState, error) {
	st := models.StreakState{StudentID: studentID}
	err := s.pool.QueryRow(ctx,
		`SELECT current_streak, longest_streak, last_study_date, total_study_days
		 FROM student_streaks WHERE student_id = $1`,
		studentID,
	).Scan(&st.CurrentStreak, &st.LongestStreak, &st.LastStudyDate, &st.TotalStudyDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("get streak: %w", err)
	}
	return st, nil
}

// ResetLapsedStreaks zeroes every running streak whose last study day is
// before cutoff and returns how many rows changed.
func (s *Store) ResetLapsedStreaks(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE student_streaks SET current_streak = 0, updated_at = NOW()
		 WHERE current_streak > 0 AND (last_study_date IS NULL OR last_study_date < $1)`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("reset lapsed streaks: %w", err)
	}
	return tag.RowsAffected(), nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getActivity(ctx context.Context, q querier, studentID string, day time.Time) (*models.DailyActivity, error) {
	rec := models.DailyActivity{StudentID: studentID}
	err := q.QueryRow(ctx,
		`SELECT activity_date, exercises, srs_reviews, study_time, completed, updated_at
		 FROM daily_activity WHERE student_id = $1 AND activity_date = $2`,
		studentID, day,
	).Scan(&rec.Day, &rec.Exercises, &rec.SRSReviews, &rec.StudyTime, &rec.Completed, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return &rec, nil
}
