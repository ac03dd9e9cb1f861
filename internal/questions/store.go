package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MarcoGiova99/tutor/internal/database"
	"github.com/MarcoGiova99/tutor/internal/models"
)

type Store struct {
	pool *pgxpool.Pool
	tx   *database.Transactor
}

func NewStore(pool *pgxpool.Pool, tx *database.Transactor) *Store {
	return &Store{pool: pool, tx: tx}
}

// ── Questions ───────────────────────────────────────────

const questionColumns = `id, level_id, type, difficulty, text, explanation,
	options, correct_index, available_accounts, correct_mapping, created_at`

// InsertQuestions writes qs in transactions of at most batchSize rows each.
// A question whose id already exists is overwritten, so importing the same
// file twice leaves one copy. It returns how many rows were committed, which
// is less than len(qs) when a later chunk fails.
func (s *Store) InsertQuestions(ctx context.Context, qs []models.Question, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = len(qs)
	}

	inserted := 0
	for start := 0; start < len(qs); start += batchSize {
		end := start + batchSize
		if end > len(qs) {
			end = len(qs)
		}
		chunk := qs[start:end]

		err := s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			batch := &pgx.Batch{}
			for _, q := range chunk {
				options, accounts, mapping, err := encodeQuestionJSON(q)
				if err != nil {
					return err
				}
				batch.Queue(
					`INSERT INTO questions (id, level_id, type, difficulty, text, explanation,
					    options, correct_index, available_accounts, correct_mapping)
					 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
					 ON CONFLICT (id) DO UPDATE SET
					    level_id = EXCLUDED.level_id,
					    type = EXCLUDED.type,
					    difficulty = EXCLUDED.difficulty,
					    text = EXCLUDED.text,
					    explanation = EXCLUDED.explanation,
					    options = EXCLUDED.options,
					    correct_index = EXCLUDED.correct_index,
					    available_accounts = EXCLUDED.available_accounts,
					    correct_mapping = EXCLUDED.correct_mapping`,
					q.ID, q.LevelID, q.Type, q.Difficulty, q.Text, q.Explanation,
					options, q.CorrectIndex, accounts, mapping,
				)
			}

			br := tx.SendBatch(ctx, batch)
			for range chunk {
				if _, err := br.Exec(); err != nil {
					br.Close()
					return fmt.Errorf("insert question: %w", err)
				}
			}
			return br.Close()
		})
		if err != nil {
			return inserted, err
		}
		inserted += len(chunk)
	}
	return inserted, nil
}

func encodeQuestionJSON(q models.Question) (options, accounts, mapping []byte, err error) {
	if options, err = json.Marshal(nonNilStrings(q.Options)); err != nil {
		return nil, nil, nil, err
	}
	if accounts, err = json.Marshal(nonNilStrings(q.AvailableAccounts)); err != nil {
		return nil, nil, nil, err
	}
	m := q.CorrectMapping
	if m == nil {
		m = map[string]models.Side{}
	}
	if mapping, err = json.Marshal(m); err != nil {
		return nil, nil, nil, err
	}
	return options, accounts, mapping, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (s *Store) ListByLevel(ctx context.Context, levelID string) ([]models.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE level_id = $1 ORDER BY created_at, id`,
		levelID,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []models.Question
	for rows.Next() {
		var (
			q                          models.Question
			options, accounts, mapping []byte
		)
		if err := rows.Scan(&q.ID, &q.LevelID, &q.Type, &q.Difficulty, &q.Text, &q.Explanation,
			&options, &q.CorrectIndex, &accounts, &mapping, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("decode options of %s: %w", q.ID, err)
		}
		if err := json.Unmarshal(accounts, &q.AvailableAccounts); err != nil {
			return nil, fmt.Errorf("decode accounts of %s: %w", q.ID, err)
		}
		if err := json.Unmarshal(mapping, &q.CorrectMapping); err != nil {
			return nil, fmt.Errorf("decode mapping of %s: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *Store) DeleteByLevel(ctx context.Context, levelID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE level_id = $1`, levelID)
	if err != nil {
		return 0, fmt.Errorf("delete questions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ── Levels ──────────────────────────────────────────────

func (s *Store) UpsertLevels(ctx context.Context, levels []models.Level) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, l := range levels {
			_, err := tx.Exec(ctx,
				`INSERT INTO levels (id, course_id, title, subtitle, position, requires)
				 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
				 ON CONFLICT (id) DO UPDATE SET
				    course_id = EXCLUDED.course_id, title = EXCLUDED.title,
				    subtitle = EXCLUDED.subtitle, position = EXCLUDED.position,
				    requires = EXCLUDED.requires`,
				l.ID, l.CourseID, l.Title, l.Subtitle, l.Position, l.Requires,
			)
			if err != nil {
				return fmt.Errorf("upsert level %s: %w", l.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) ListLevels(ctx context.Context, courseID string) ([]models.Level, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, course_id, title, subtitle, position, COALESCE(requires, '')
		 FROM levels WHERE course_id = $1 ORDER BY position, id`,
		courseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	defer rows.Close()

	var out []models.Level
	for rows.Next() {
		var l models.Level
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.Subtitle, &l.Position, &l.Requires); err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) GetLevel(ctx context.Context, id string) (models.Level, error) {
	var l models.Level
	err := s.pool.QueryRow(ctx,
		`SELECT id, course_id, title, subtitle, position, COALESCE(requires, '')
		 FROM levels WHERE id = $1`,
		id,
	).Scan(&l.ID, &l.CourseID, &l.Title, &l.Subtitle, &l.Position, &l.Requires)
	if errors.Is(err, pgx.ErrNoRows) {
		return l, ErrLevelNotFound
	}
	if err != nil {
		return l, fmt.Errorf("get level: %w", err)
	}
	return l, nil
}

// ── Student Progress ────────────────────────────────────

func (s *Store) ListProgress(ctx context.Context, studentID string) (map[string]models.LevelProgress, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT level_id, best_score, completed, updated_at
		 FROM student_levels WHERE student_id = $1`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	out := make(map[string]models.LevelProgress)
	for rows.Next() {
		p := models.LevelProgress{StudentID: studentID}
		if err := rows.Scan(&p.LevelID, &p.BestScore, &p.Completed, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out[p.LevelID] = p
	}
	return out, rows.Err()
}

// RecordScore keeps the best score seen for the level. A level stays
// completed once its best score reaches passing.
func (s *Store) RecordScore(ctx context.Context, studentID, levelID string, score, passing int) (models.LevelProgress, error) {
	p := models.LevelProgress{StudentID: studentID, LevelID: levelID}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO student_levels (student_id, level_id, best_score, completed, updated_at)
		 VALUES ($1, $2, $3, $3 >= $4, NOW())
		 ON CONFLICT (student_id, level_id) DO UPDATE SET
		    best_score = GREATEST(student_levels.best_score, EXCLUDED.best_score),
		    completed = student_levels.completed OR EXCLUDED.best_score >= $4,
		    updated_at = NOW()
		 RETURNING best_score, completed, updated_at`,
		studentID, levelID, score, passing,
	).Scan(&p.BestScore, &p.Completed, &p.UpdatedAt)
	if err != nil {
		return p, fmt.Errorf("record score: %w", err)
	}
	return p, nil
}

func (s *Store) CompletedLevelCount(ctx context.Context, studentID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM student_levels WHERE student_id = $1 AND completed`,
		studentID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed levels: %w", err)
	}
	return n, nil
}
