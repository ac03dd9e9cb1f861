package gamification

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type StreakResetter interface {
	ResetLapsedStreaks(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically zeroes streaks that lapsed, so stored values match
// what ApplyActivity would compute on the next update.
type Sweeper struct {
	store StreakResetter
	loc   *time.Location
	log   *zap.Logger
	now   func() time.Time
}

func NewSweeper(store StreakResetter, loc *time.Location, log *zap.Logger) *Sweeper {
	if loc == nil {
		loc = time.UTC
	}
	return &Sweeper{store: store, loc: loc, log: log.Named("streak-sweeper"), now: time.Now}
}

// LapseCutoff is the start of yesterday in loc. A streak whose last study
// instant is before it has missed at least one full day.
func LapseCutoff(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d-1, 0, 0, 0, 0, loc)
}

func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	n, err := s.store.ResetLapsedStreaks(ctx, LapseCutoff(s.now(), s.loc))
	if err != nil {
		return 0, err
	}
	s.log.Info("lapsed streaks reset", zap.Int64("count", n))
	return n, nil
}

// Start schedules RunOnce on schedule (standard five-field cron) until ctx is done.
func (s *Sweeper) Start(ctx context.Context, schedule string) error {
	c := cron.New(cron.WithLocation(s.loc))
	_, err := c.AddFunc(schedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if _, err := s.RunOnce(runCtx); err != nil {
			s.log.Error("streak sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	s.log.Info("streak sweeper started", zap.String("schedule", schedule))

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return nil
}
