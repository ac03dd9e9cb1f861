package gamification

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MarcoGiova99/tutor/internal/database"
	"github.com/MarcoGiova99/tutor/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	if err := database.Migrate(dsn); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	pool, err := database.Connect(context.Background(), dsn, database.PoolConfig{MaxConns: 10})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return NewStore(pool, database.NewTransactor(pool))
}

func TestStoreSerializesConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	student := "it-" + uuid.NewString()
	clock := time.Now()

	svc := NewService(store, fixedLevels(0), Config{
		Profiles: map[models.GoalProfileName]models.GoalProfile{
			models.ProfileBeginner: {Exercises: 5},
		},
	}, zap.NewNop())
	svc.now = func() time.Time { return clock }

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ApplyActivity(ctx, student, models.ActivityDelta{Exercises: 1, StudyTime: 2}); err != nil {
				t.Errorf("ApplyActivity: %v", err)
			}
		}()
	}
	wg.Wait()

	rec, err := store.GetActivity(ctx, student, CalendarDay(clock, time.UTC))
	if err != nil || rec == nil {
		t.Fatalf("GetActivity = %v, %v", rec, err)
	}
	if rec.Exercises != 20 || rec.StudyTime != 40 || !rec.Completed {
		t.Errorf("record = %+v, want 20 exercises 40 minutes completed", rec)
	}

	streak, err := store.GetStreak(ctx, student)
	if err != nil {
		t.Fatalf("GetStreak: %v", err)
	}
	if streak.CurrentStreak != 1 || streak.TotalStudyDays != 1 {
		t.Errorf("streak = %+v, want one increment", streak)
	}
}

func TestStoreResetLapsedStreaks(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	student := "it-" + uuid.NewString()

	last := time.Now().AddDate(0, 0, -5)
	_, _, err := store.UpdateActivity(ctx, student, CalendarDay(last, time.UTC),
		func(_ *models.DailyActivity, st models.StreakState) (models.DailyActivity, models.StreakState, error) {
			st.CurrentStreak, st.LongestStreak, st.TotalStudyDays = 3, 3, 3
			st.LastStudyDate = &last
			return models.DailyActivity{StudentID: student, Day: CalendarDay(last, time.UTC)}, st, nil
		})
	if err != nil {
		t.Fatalf("UpdateActivity: %v", err)
	}

	n, err := store.ResetLapsedStreaks(ctx, LapseCutoff(time.Now(), time.UTC))
	if err != nil || n < 1 {
		t.Fatalf("ResetLapsedStreaks = %d, %v", n, err)
	}

	streak, _ := store.GetStreak(ctx, student)
	if streak.CurrentStreak != 0 || streak.LongestStreak != 3 {
		t.Errorf("streak = %+v, want current 0 longest 3", streak)
	}
}
