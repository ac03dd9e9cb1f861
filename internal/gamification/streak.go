package gamification

import (
	"time"

	"github.com/MarcoGiova99/tutor/internal/models"
)

// CalendarDay returns the date of t in loc as midnight UTC, which is how
// days are stored.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar-day boundaries in loc between from and to.
func DaysBetween(from, to time.Time, loc *time.Location) int {
	return int(CalendarDay(to, loc).Sub(CalendarDay(from, loc)).Hours() / 24)
}

func studiedOn(last *time.Time, now time.Time, loc *time.Location) bool {
	return last != nil && DaysBetween(*last, now, loc) == 0
}

// CarryStreak returns the streak as it stands at now, before any activity:
// a study day today or yesterday keeps the current run, anything older
// resets it.
func CarryStreak(streak models.StreakState, now time.Time, loc *time.Location) models.StreakState {
	if streak.LastStudyDate == nil || DaysBetween(*streak.LastStudyDate, now, loc) > 1 {
		streak.CurrentStreak = 0
	}
	if streak.LongestStreak < streak.CurrentStreak {
		streak.LongestStreak = streak.CurrentStreak
	}
	return streak
}

// ApplyActivity adds delta to today's record and updates the streak. The
// streak grows at most once per calendar day, on the update that first
// completes all of the day's goals.
func ApplyActivity(profile models.GoalProfile, record *models.DailyActivity, streak models.StreakState, delta models.ActivityDelta, now time.Time, loc *time.Location) (models.DailyActivity, models.StreakState) {
	today := CalendarDay(now, loc)

	var rec models.DailyActivity
	if record != nil && record.Day.Equal(today) {
		rec = *record
	}
	rec.StudentID = streak.StudentID
	rec.Day = today

	wasCompleted := rec.Completed
	rec.Exercises += nonNegative(delta.Exercises)
	rec.SRSReviews += nonNegative(delta.SRSReviews)
	rec.StudyTime += nonNegative(delta.StudyTime)
	rec.Completed = GoalsMet(rec, profile)
	rec.UpdatedAt = now

	next := CarryStreak(streak, now, loc)
	if rec.Completed && !wasCompleted && !studiedOn(streak.LastStudyDate, now, loc) {
		next.CurrentStreak++
		if next.CurrentStreak > next.LongestStreak {
			next.LongestStreak = next.CurrentStreak
		}
		stamp := now
		next.LastStudyDate = &stamp
		next.TotalStudyDays++
	}
	return rec, next
}

// CanStudyToday blocks further sessions only once today's goals are done and
// the exercise cap is reached. A cap of zero or less disables the check.
func CanStudyToday(streak models.StreakState, record *models.DailyActivity, now time.Time, loc *time.Location, exerciseCap int) bool {
	if exerciseCap <= 0 || !studiedOn(streak.LastStudyDate, now, loc) {
		return true
	}
	if record == nil || !record.Day.Equal(CalendarDay(now, loc)) {
		return true
	}
	return record.Exercises < exerciseCap
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
