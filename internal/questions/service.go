package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MarcoGiova99/tutor/internal/models"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrLevelLocked   = errors.New("level is locked until its prerequisite is completed")
)

// ImportBatchSize caps the rows written per import transaction.
const ImportBatchSize = 400

type ContentStore interface {
	InsertQuestions(ctx context.Context, qs []models.Question, batchSize int) (int, error)
	ListByLevel(ctx context.Context, levelID string) ([]models.Question, error)
	DeleteByLevel(ctx context.Context, levelID string) (int64, error)
	UpsertLevels(ctx context.Context, levels []models.Level) error
	ListLevels(ctx context.Context, courseID string) ([]models.Level, error)
	GetLevel(ctx context.Context, id string) (models.Level, error)
	ListProgress(ctx context.Context, studentID string) (map[string]models.LevelProgress, error)
	RecordScore(ctx context.Context, studentID, levelID string, score, passing int) (models.LevelProgress, error)
	CompletedLevelCount(ctx context.Context, studentID string) (int, error)
}

type Service struct {
	store ContentStore
	log   *zap.Logger
	newID func() string
}

func NewService(store ContentStore, log *zap.Logger) *Service {
	return &Service{store: store, log: log.Named("questions"), newID: uuid.NewString}
}

// ── Practice support ────────────────────────────────────

func (s *Service) EnsureUnlocked(ctx context.Context, studentID, levelID string) error {
	level, err := s.store.GetLevel(ctx, levelID)
	if err != nil {
		return err
	}
	progress, err := s.store.ListProgress(ctx, studentID)
	if err != nil {
		return err
	}

	completed := make(map[string]bool, len(progress))
	for id, p := range progress {
		completed[id] = p.Completed
	}
	if Status(level, completed) == models.LevelLocked {
		return ErrLevelLocked
	}
	return nil
}

func (s *Service) Pool(ctx context.Context, levelID string) ([]models.Question, error) {
	return s.store.ListByLevel(ctx, levelID)
}

func (s *Service) RecordScore(ctx context.Context, studentID, levelID string, score int) (models.LevelProgress, error) {
	p, err := s.store.RecordScore(ctx, studentID, levelID, score, models.PassingScore)
	if err != nil {
		return p, err
	}
	if p.Completed {
		s.log.Info("level completed",
			zap.String("student_id", studentID),
			zap.String("level_id", levelID),
			zap.Int("best_score", p.BestScore),
		)
	}
	return p, nil
}

func (s *Service) CompletedLevelCount(ctx context.Context, studentID string) (int, error) {
	return s.store.CompletedLevelCount(ctx, studentID)
}

func (s *Service) Roadmap(ctx context.Context, studentID, courseID string) ([]models.RoadmapNode, error) {
	levels, err := s.store.ListLevels(ctx, courseID)
	if err != nil {
		return nil, err
	}
	progress, err := s.store.ListProgress(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return BuildRoadmap(levels, progress), nil
}

// ── Content administration ──────────────────────────────

// Import parses a question file and stores it under levelID. Questions
// without an id get a fresh one.
func (s *Service) Import(ctx context.Context, levelID string, body []byte) (models.ImportResult, error) {
	if _, err := s.store.GetLevel(ctx, levelID); err != nil {
		return models.ImportResult{}, err
	}

	qs, err := ParseImport(body, levelID)
	if err != nil {
		return models.ImportResult{}, err
	}
	for i := range qs {
		if qs[i].ID == "" {
			qs[i].ID = s.newID()
		}
	}

	n, err := s.store.InsertQuestions(ctx, qs, ImportBatchSize)
	result := models.ImportResult{LevelID: levelID, Imported: n}
	if err != nil {
		return result, fmt.Errorf("import questions: %w", err)
	}

	s.log.Info("questions imported", zap.String("level_id", levelID), zap.Int("count", n))
	return result, nil
}

func (s *Service) Check(ctx context.Context, levelID string) (models.LevelReport, error) {
	qs, err := s.store.ListByLevel(ctx, levelID)
	if err != nil {
		return models.LevelReport{}, err
	}

	report := models.LevelReport{
		LevelID:      levelID,
		Total:        len(qs),
		ByDifficulty: make(map[models.Difficulty]int),
		ByType:       make(map[models.QuestionType]int),
		Questions:    qs,
	}
	for _, q := range qs {
		report.ByDifficulty[q.Difficulty]++
		report.ByType[q.Type]++
	}
	return report, nil
}

func (s *Service) Clean(ctx context.Context, levelID string) (int64, error) {
	n, err := s.store.DeleteByLevel(ctx, levelID)
	if err != nil {
		return 0, err
	}
	s.log.Info("level questions deleted", zap.String("level_id", levelID), zap.Int64("count", n))
	return n, nil
}

type rawLevel struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Req      string `json:"req"`
	Requires string `json:"requires"`
}

// ImportLevels stores a course roadmap given as an ordered JSON array.
// Array order becomes the level position.
func (s *Service) ImportLevels(ctx context.Context, courseID string, body []byte) (int, error) {
	var raws []rawLevel
	if err := json.Unmarshal([]byte(stripCodeFences(string(body))), &raws); err != nil {
		return 0, fmt.Errorf("failed to parse roadmap file: %w", err)
	}

	var errs []string
	levels := make([]models.Level, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for i, r := range raws {
		if strings.TrimSpace(r.ID) == "" {
			errs = append(errs, fmt.Sprintf("level %d: empty id", i+1))
			continue
		}
		requires := r.Requires
		if requires == "" {
			requires = r.Req
		}
		if requires != "" && !seen[requires] {
			errs = append(errs, fmt.Sprintf("level %d: prerequisite %q must come earlier in the file", i+1, requires))
		}
		seen[r.ID] = true
		levels = append(levels, models.Level{
			ID:       r.ID,
			CourseID: courseID,
			Title:    firstNonEmpty(r.Title, r.ID),
			Subtitle: r.Subtitle,
			Position: i,
			Requires: requires,
		})
	}
	if len(errs) > 0 {
		return 0, &ValidationError{Errors: errs}
	}

	if err := s.store.UpsertLevels(ctx, levels); err != nil {
		return 0, err
	}
	return len(levels), nil
}
