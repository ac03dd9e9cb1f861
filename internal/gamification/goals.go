package gamification

import (
	"math"

	"github.com/MarcoGiova99/tutor/internal/models"
)

// DefaultProfiles are the daily targets for each goal profile. StudyTime is
// in minutes.
var DefaultProfiles = map[models.GoalProfileName]models.GoalProfile{
	models.ProfileBeginner:     {Name: models.ProfileBeginner, Exercises: 5, SRSReviews: 3, StudyTime: 10},
	models.ProfileIntermediate: {Name: models.ProfileIntermediate, Exercises: 10, SRSReviews: 5, StudyTime: 20},
	models.ProfileAdvanced:     {Name: models.ProfileAdvanced, Exercises: 15, SRSReviews: 8, StudyTime: 30},
}

// ProfileName picks the goal profile from the number of completed levels.
func ProfileName(completedLevels int) models.GoalProfileName {
	switch {
	case completedLevels <= 3:
		return models.ProfileBeginner
	case completedLevels <= 8:
		return models.ProfileIntermediate
	default:
		return models.ProfileAdvanced
	}
}

// ProfileFor resolves the profile for completedLevels from profiles, falling
// back to the defaults for any missing entry.
func ProfileFor(completedLevels int, profiles map[models.GoalProfileName]models.GoalProfile) models.GoalProfile {
	name := ProfileName(completedLevels)
	if p, ok := profiles[name]; ok {
		p.Name = name
		return p
	}
	return DefaultProfiles[name]
}

// GoalsMet reports whether every counter reached its target. A target of
// zero or less is always met.
func GoalsMet(rec models.DailyActivity, profile models.GoalProfile) bool {
	return met(rec.Exercises, profile.Exercises) &&
		met(rec.SRSReviews, profile.SRSReviews) &&
		met(rec.StudyTime, profile.StudyTime)
}

func met(counter, target int) bool {
	return target <= 0 || counter >= target
}

// Progress returns the completion percentage of each goal, capped at 100
// and rounded to two decimals, plus their rounded mean.
func Progress(rec *models.DailyActivity, profile models.GoalProfile) models.GoalProgress {
	if rec == nil {
		return models.GoalProgress{}
	}

	p := models.GoalProgress{
		Exercises:  percent(rec.Exercises, profile.Exercises),
		SRSReviews: percent(rec.SRSReviews, profile.SRSReviews),
		StudyTime:  percent(rec.StudyTime, profile.StudyTime),
	}
	p.Overall = int(math.Round((p.Exercises + p.SRSReviews + p.StudyTime) / 3))
	return p
}

func percent(counter, target int) float64 {
	if target <= 0 {
		return 100
	}
	v := math.Round(100*float64(counter)/float64(target)*100) / 100
	return math.Min(100, v)
}
