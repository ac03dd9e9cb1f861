package gamification

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/MarcoGiova99/tutor/internal/models"
)

var tracer = otel.Tracer("github.com/MarcoGiova99/tutor/internal/gamification")

type ActivityStore interface {
	UpdateActivity(ctx context.Context, studentID string, day time.Time, fn ActivityFunc) (models.DailyActivity, models.StreakState, error)
	GetActivity(ctx context.Context, studentID string, day time.Time) (*models.DailyActivity, error)
	GetStreak(ctx context.Context, studentID string) (models.StreakState, error)
}

// LevelCounter reports how many levels a student has completed.
type LevelCounter interface {
	CompletedLevelCount(ctx context.Context, studentID string) (int, error)
}

type Config struct {
	Profiles         map[models.GoalProfileName]models.GoalProfile
	Location         *time.Location
	DailyExerciseCap int
}

type Service struct {
	store  ActivityStore
	levels LevelCounter
	cfg    Config
	log    *zap.Logger
	now    func() time.Time
}

func NewService(store ActivityStore, levels LevelCounter, cfg Config, log *zap.Logger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Profiles == nil {
		cfg.Profiles = DefaultProfiles
	}
	return &Service{store: store, levels: levels, cfg: cfg, log: log.Named("gamification"), now: time.Now}
}

func (s *Service) profile(ctx context.Context, studentID string) (models.GoalProfile, error) {
	completed, err := s.levels.CompletedLevelCount(ctx, studentID)
	if err != nil {
		return models.GoalProfile{}, fmt.Errorf("count completed levels: %w", err)
	}
	return ProfileFor(completed, s.cfg.Profiles), nil
}

// ── Activity ────────────────────────────────────────────

// ApplyActivity adds delta to the student's counters for today and updates
// the streak in a single locked read-modify-write.
func (s *Service) ApplyActivity(ctx context.Context, studentID string, delta models.ActivityDelta) (models.ActivityResult, error) {
	ctx, span := tracer.Start(ctx, "gamification.ApplyActivity")
	defer span.End()

	profile, err := s.profile(ctx, studentID)
	if err != nil {
		span.RecordError(err)
		return models.ActivityResult{}, err
	}

	now := s.now()
	var wasCompleted bool
	rec, streak, err := s.store.UpdateActivity(ctx, studentID, CalendarDay(now, s.cfg.Location),
		func(record *models.DailyActivity, streak models.StreakState) (models.DailyActivity, models.StreakState, error) {
			wasCompleted = record != nil && record.Completed
			rec, next := ApplyActivity(profile, record, streak, delta, now, s.cfg.Location)
			return rec, next, nil
		})
	if err != nil {
		span.RecordError(err)
		return models.ActivityResult{}, fmt.Errorf("update activity: %w", err)
	}

	if rec.Completed && !wasCompleted {
		s.log.Info("daily goals completed",
			zap.String("student_id", studentID),
			zap.String("profile", string(profile.Name)),
			zap.Int("current_streak", streak.CurrentStreak),
		)
	}
	span.SetAttributes(
		attribute.Bool("goals.completed", rec.Completed),
		attribute.Int("streak.current", streak.CurrentStreak),
	)

	return models.ActivityResult{Activity: rec, Streak: streak, GoalsCompleted: rec.Completed}, nil
}

func (s *Service) CanStudyToday(ctx context.Context, studentID string) (bool, error) {
	now := s.now()
	streak, err := s.store.GetStreak(ctx, studentID)
	if err != nil {
		return false, err
	}
	rec, err := s.store.GetActivity(ctx, studentID, CalendarDay(now, s.cfg.Location))
	if err != nil {
		return false, err
	}
	return CanStudyToday(streak, rec, now, s.cfg.Location, s.cfg.DailyExerciseCap), nil
}

// Today returns the student's goals, counters and streak for the current day.
func (s *Service) Today(ctx context.Context, studentID string) (models.GoalsTodayResponse, error) {
	now := s.now()
	day := CalendarDay(now, s.cfg.Location)

	profile, err := s.profile(ctx, studentID)
	if err != nil {
		return models.GoalsTodayResponse{}, err
	}
	streak, err := s.store.GetStreak(ctx, studentID)
	if err != nil {
		return models.GoalsTodayResponse{}, err
	}
	rec, err := s.store.GetActivity(ctx, studentID, day)
	if err != nil {
		return models.GoalsTodayResponse{}, err
	}

	resp := models.GoalsTodayResponse{
		Profile:       profile,
		Activity:      models.DailyActivity{Day: day},
		Progress:      Progress(rec, profile),
		Streak:        CarryStreak(streak, now, s.cfg.Location),
		CanStudyToday: CanStudyToday(streak, rec, now, s.cfg.Location, s.cfg.DailyExerciseCap),
	}
	if rec != nil {
		resp.Activity = *rec
	}
	return resp, nil
}
