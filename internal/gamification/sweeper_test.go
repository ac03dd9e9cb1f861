package gamification

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

type recordingResetter struct {
	cutoffs []time.Time
}

func (r *recordingResetter) ResetLapsedStreaks(_ context.Context, cutoff time.Time) (int64, error) {
	r.cutoffs = append(r.cutoffs, cutoff)
	return 3, nil
}

func TestLapseCutoff(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	if got, want := LapseCutoff(now, time.UTC), time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("UTC cutoff = %v, want %v", got, want)
	}

	plusTwo := time.FixedZone("UTC+2", 2*3600)
	late := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	if got, want := LapseCutoff(late, plusTwo), time.Date(2025, 3, 9, 22, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("UTC+2 cutoff = %v, want %v", got, want)
	}
}

func TestLapseCutoffMatchesCarryStreak(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	cutoff := LapseCutoff(now, time.UTC)

	kept := cutoff
	if DaysBetween(kept, now, time.UTC) > 1 {
		t.Error("study at the cutoff should keep the streak")
	}
	lapsed := cutoff.Add(-time.Second)
	if DaysBetween(lapsed, now, time.UTC) <= 1 {
		t.Error("study before the cutoff should lapse the streak")
	}
}

func TestSweeperRunOnce(t *testing.T) {
	store := &recordingResetter{}
	sw := NewSweeper(store, nil, zap.NewNop())
	sw.now = func() time.Time { return time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC) }

	n, err := sw.RunOnce(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("RunOnce = %d, %v", n, err)
	}
	if len(store.cutoffs) != 1 || !store.cutoffs[0].Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("cutoffs = %v", store.cutoffs)
	}
}

func TestSweeperRejectsBadSchedule(t *testing.T) {
	sw := NewSweeper(&recordingResetter{}, time.UTC, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sw.Start(ctx, "not a cron expression"); err == nil {
		t.Error("Start accepted an invalid schedule")
	}
}
