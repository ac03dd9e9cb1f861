package srs

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

var ErrNotFound = errors.New("review item not found")

type Store struct {
	pool *pgxpool.Pool
	tx   *database.Transactor
}

func NewStore(pool *pgxpool.Pool, tx *database.Transactor) *Store {
	return &Store{pool: pool, tx: tx}
}

const reviewColumns = `student_id, question_id, text, explanation, interval_days, due_date, created_at, updated_at`

func scanItem(row pgx.Row) (models.ReviewItem, error) {
	var it models.ReviewItem
	err := row.Scan(&it.StudentID, &it.QuestionID, &it.Snapshot.Text, &it.Snapshot.Explanation,
		&it.IntervalDays, &it.DueDate, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

// UpsertItems inserts items, resetting any existing item for the same
// question back to the values given.
func (s *Store) UpsertItems(ctx context.Context, items []models.ReviewItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(
			`INSERT INTO review_items (`+reviewColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			 ON CONFLICT (student_id, question_id) DO UPDATE SET
			    text = EXCLUDED.text,
			    explanation = EXCLUDED.explanation,
			    interval_days = EXCLUDED.interval_days,
			    due_date = EXCLUDED.due_date,
			    updated_at = EXCLUDED.updated_at`,
			it.StudentID, it.QuestionID, it.Snapshot.Text, it.Snapshot.Explanation,
			it.IntervalDays, it.DueDate, it.CreatedAt,
		)
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		br := tx.SendBatch(ctx, batch)
		for range items {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return fmt.Errorf("upsert review item: %w", err)
			}
		}
		return br.Close()
	})
}

func (s *Store) ListDue(ctx context.Context, studentID string, now time.Time) ([]models.ReviewItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+reviewColumns+`
		 FROM review_items
		 WHERE student_id = $1 AND (due_date IS NULL OR due_date <= $2)
		 ORDER BY due_date ASC NULLS FIRST, question_id`,
		studentID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("list due reviews: %w", err)
	}
	defer rows.Close()

	var items []models.ReviewItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Apply locks one item, passes it to fn and stores the result. When fn
// reports retire the item is deleted.
func (s *Store) Apply(ctx context.Context, studentID, questionID string, fn func(models.ReviewItem) (models.ReviewItem, bool, error)) (models.ReviewItem, bool, error) {
	var (
		out     models.ReviewItem
		retired bool
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		item, err := scanItem(tx.QueryRow(ctx,
			`SELECT `+reviewColumns+`
			 FROM review_items
			 WHERE student_id = $1 AND question_id = $2
			 FOR UPDATE`,
			studentID, questionID,
		))
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get review item: %w", err)
		}

		out, retired, err = fn(item)
		if err != nil {
			return err
		}

		if retired {
			_, err = tx.Exec(ctx,
				`DELETE FROM review_items WHERE student_id = $1 AND question_id = $2`,
				studentID, questionID,
			)
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE review_items SET interval_days = $3, due_date = $4, updated_at = $5
			 WHERE student_id = $1 AND question_id = $2`,
			studentID, questionID, out.IntervalDays, out.DueDate, out.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return models.ReviewItem{}, false, err
	}
	return out, retired, nil
}
