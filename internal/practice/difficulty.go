package practice

import "github.com/MarcoGiova99/tutor/internal/models"

// tierOrder lists the difficulty tiers from easiest to hardest.
var tierOrder = []models.Difficulty{
	models.DifficultyEasy,
	models.DifficultyMedium,
	models.DifficultyHard,
}

func tierRank(d models.Difficulty) int {
	for i, t := range tierOrder {
		if t == d {
			return i
		}
	}
	return -1
}

// NextDifficulty moves one tier up after a correct answer and one tier down
// after a wrong one, clamped to [easy, hard]. Unknown tiers reset to medium.
func NextDifficulty(current models.Difficulty, wasCorrect bool) models.Difficulty {
	rank := tierRank(current)
	if rank < 0 {
		return models.DifficultyMedium
	}

	if wasCorrect {
		rank++
	} else {
		rank--
	}

	if rank < 0 {
		rank = 0
	}
	if rank > len(tierOrder)-1 {
		rank = len(tierOrder) - 1
	}
	return tierOrder[rank]
}
