package practice

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/MarcoGiova99/tutor/internal/models"
)

var ErrDailyLimitReached = errors.New("daily exercise limit reached")

var tracer = otel.Tracer("github.com/MarcoGiova99/tutor/internal/practice")

// Levels supplies question pools and records level results.
type Levels interface {
	EnsureUnlocked(ctx context.Context, studentID, levelID string) error
	Pool(ctx context.Context, levelID string) ([]models.Question, error)
	RecordScore(ctx context.Context, studentID, levelID string, score int) (models.LevelProgress, error)
}

// Activity receives the study time and exercise count of finished sessions.
type Activity interface {
	CanStudyToday(ctx context.Context, studentID string) (bool, error)
	ApplyActivity(ctx context.Context, studentID string, delta models.ActivityDelta) (models.ActivityResult, error)
}

// Reviews schedules missed questions for spaced repetition.
type Reviews interface {
	RecordMisses(ctx context.Context, studentID string, misses []models.AnswerRecord) (int, error)
}

type Service struct {
	sessions SessionStore
	levels   Levels
	activity Activity
	reviews  Reviews
	log      *zap.Logger

	rngMu sync.Mutex
	rng   Rand
	now   func() time.Time
	newID func() string
}

type Option func(*Service)

// WithRand replaces the random source used to pick questions.
func WithRand(r Rand) Option {
	return func(s *Service) { s.rng = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(sessions SessionStore, levels Levels, activity Activity, reviews Reviews, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		sessions: sessions,
		levels:   levels,
		activity: activity,
		reviews:  reviews,
		log:      log.Named("practice"),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Intn serializes access to the underlying source, which is not safe for
// concurrent use.
func (s *Service) Intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

// ── Session lifecycle ───────────────────────────────────

func (s *Service) Start(ctx context.Context, studentID, levelID string) (models.SessionView, error) {
	ctx, span := tracer.Start(ctx, "practice.Start", trace.WithAttributes(
		attribute.String("student.id", studentID),
		attribute.String("level.id", levelID),
	))
	defer span.End()

	allowed, err := s.activity.CanStudyToday(ctx, studentID)
	if err != nil {
		return models.SessionView{}, spanError(span, fmt.Errorf("check daily limit: %w", err))
	}
	if !allowed {
		return models.SessionView{}, spanError(span, ErrDailyLimitReached)
	}

	if err := s.levels.EnsureUnlocked(ctx, studentID, levelID); err != nil {
		return models.SessionView{}, spanError(span, err)
	}

	pool, err := s.levels.Pool(ctx, levelID)
	if err != nil {
		return models.SessionView{}, spanError(span, fmt.Errorf("load pool: %w", err))
	}

	sess, err := NewSession(s.newID(), studentID, levelID, pool, s, s.now())
	if err != nil {
		return models.SessionView{}, spanError(span, err)
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return models.SessionView{}, spanError(span, fmt.Errorf("save session: %w", err))
	}

	s.log.Info("session started",
		zap.String("session_id", sess.ID),
		zap.String("student_id", studentID),
		zap.String("level_id", levelID),
		zap.Int("pool_size", len(pool)),
	)
	return sess.View(), nil
}

func (s *Service) Get(ctx context.Context, studentID, sessionID string) (models.SessionView, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return models.SessionView{}, err
	}
	if sess.StudentID != studentID {
		return models.SessionView{}, ErrSessionNotFound
	}
	return sess.View(), nil
}

// Answer grades the current question. The answer key is only revealed here.
func (s *Service) Answer(ctx context.Context, studentID, sessionID string, sub models.Submission) (models.AnswerResult, error) {
	ctx, span := tracer.Start(ctx, "practice.Answer", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	var result models.AnswerResult
	_, err := s.sessions.Update(ctx, sessionID, func(sess *Session) error {
		if sess.StudentID != studentID {
			return ErrSessionNotFound
		}
		q, ok := sess.Current()
		if !ok && sess.Status == models.SessionInProgress {
			return ErrNoCurrentQuestion
		}

		rec, err := sess.Check(sub, s.now())
		if err != nil {
			return err
		}
		result = models.AnswerResult{
			Correct:        rec.Correct,
			Explanation:    q.Explanation,
			CorrectIndex:   q.CorrectIndex,
			CorrectMapping: q.CorrectMapping,
		}
		return nil
	})
	if err != nil {
		return models.AnswerResult{}, spanError(span, err)
	}

	span.SetAttributes(attribute.Bool("answer.correct", result.Correct))
	return result, nil
}

// Next advances the session. The call that finishes a session also applies
// its effects: activity counters, review items and the level score. If one of
// them fails, calling Next again resumes from the first effect not applied.
func (s *Service) Next(ctx context.Context, studentID, sessionID string) (models.SessionView, error) {
	ctx, span := tracer.Start(ctx, "practice.Next", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	var finished bool
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *Session) error {
		if sess.StudentID != studentID {
			return ErrSessionNotFound
		}
		if sess.Pending() {
			finished = true
			return nil
		}
		done, err := sess.Advance(s, s.now())
		if err != nil {
			return err
		}
		finished = done
		return nil
	})
	if err != nil {
		return models.SessionView{}, spanError(span, err)
	}
	if !finished {
		return sess.View(), nil
	}

	sess, err = s.complete(ctx, sess)
	if err != nil {
		s.log.Error("failed to apply session results",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return models.SessionView{}, spanError(span, err)
	}
	return sess.View(), nil
}

// complete applies the finish effects that are still outstanding, saving
// progress after each one, and stores the summary once all have run.
func (s *Service) complete(ctx context.Context, sess *Session) (*Session, error) {
	effects := sess.Effects
	save := func(summary *models.SessionSummary) error {
		updated, err := s.sessions.Update(ctx, sess.ID, func(stored *Session) error {
			stored.Effects = effects
			stored.Summary = summary
			return nil
		})
		if err != nil {
			return fmt.Errorf("save session results: %w", err)
		}
		sess = updated
		return nil
	}

	if !effects.ActivityApplied {
		delta := models.ActivityDelta{
			Exercises: len(sess.History),
			StudyTime: sess.StudyMinutes(),
		}
		if _, err := s.activity.ApplyActivity(ctx, sess.StudentID, delta); err != nil {
			return nil, fmt.Errorf("apply activity: %w", err)
		}
		effects.ActivityApplied = true
		if err := save(nil); err != nil {
			return nil, err
		}
	}

	if !effects.MissesRecorded {
		created, err := s.reviews.RecordMisses(ctx, sess.StudentID, sess.Misses())
		if err != nil {
			return nil, fmt.Errorf("record misses: %w", err)
		}
		effects.MissesRecorded = true
		effects.NewReviewItems = created
		if err := save(nil); err != nil {
			return nil, err
		}
	}

	if !effects.ScoreRecorded {
		progress, err := s.levels.RecordScore(ctx, sess.StudentID, sess.LevelID, sess.Score())
		if err != nil {
			return nil, fmt.Errorf("record score: %w", err)
		}
		effects.ScoreRecorded = true
		effects.BestScore = progress.BestScore
		effects.LevelCompleted = progress.Completed
	}

	summary := models.SessionSummary{
		Score:            sess.Score(),
		Correct:          sess.CorrectCount(),
		Total:            len(sess.History),
		StudyTimeMinutes: sess.StudyMinutes(),
		NewReviewItems:   effects.NewReviewItems,
		BestScore:        effects.BestScore,
		LevelCompleted:   effects.LevelCompleted,
	}
	if sess.FinishedAt != nil {
		summary.FinishedAt = *sess.FinishedAt
	}
	if err := save(&summary); err != nil {
		return nil, err
	}

	s.log.Info("session finished",
		zap.String("session_id", sess.ID),
		zap.String("student_id", sess.StudentID),
		zap.Int("score", summary.Score),
		zap.Int("answered", summary.Total),
		zap.Int("review_items", summary.NewReviewItems),
	)
	return sess, nil
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
