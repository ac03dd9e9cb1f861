package models

import "time"

// ── Goals & Streak ───────────────────────────────────────

type GoalProfileName string

const (
	ProfileBeginner     GoalProfileName = "beginner"
	ProfileIntermediate GoalProfileName = "intermediate"
	ProfileAdvanced     GoalProfileName = "advanced"
)

type GoalProfile struct {
	Name       GoalProfileName `json:"name" mapstructure:"-"`
	Exercises  int             `json:"exercises" mapstructure:"exercises"`
	SRSReviews int             `json:"srs_reviews" mapstructure:"srs_reviews"`
	StudyTime  int             `json:"study_time" mapstructure:"study_time"`
}

// ActivityDelta is an increment to today's counters. StudyTime is in minutes.
type ActivityDelta struct {
	Exercises  int `json:"exercises"`
	SRSReviews int `json:"srs_reviews"`
	StudyTime  int `json:"study_time"`
}

// DailyActivity holds one student's counters for one calendar day.
type DailyActivity struct {
	StudentID  string    `json:"-"`
	Day        time.Time `json:"day"`
	Exercises  int       `json:"exercises"`
	SRSReviews int       `json:"srs_reviews"`
	StudyTime  int       `json:"study_time"`
	Completed  bool      `json:"completed"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type StreakState struct {
	StudentID      string     `json:"-"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastStudyDate  *time.Time `json:"last_study_date"`
	TotalStudyDays int        `json:"total_study_days"`
}

type GoalProgress struct {
	Exercises  float64 `json:"exercises"`
	SRSReviews float64 `json:"srs_reviews"`
	StudyTime  float64 `json:"study_time"`
	Overall    int     `json:"overall"`
}

type ActivityResult struct {
	Activity       DailyActivity `json:"activity"`
	Streak         StreakState   `json:"streak"`
	GoalsCompleted bool          `json:"goals_completed"`
}

type GoalsTodayResponse struct {
	Profile       GoalProfile   `json:"profile"`
	Activity      DailyActivity `json:"activity"`
	Progress      GoalProgress  `json:"progress"`
	Streak        StreakState   `json:"streak"`
	CanStudyToday bool          `json:"can_study_today"`
}
