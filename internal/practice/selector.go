package practice

import "github.com/MarcoGiova99/tutor/internal/models"

// Rand is the random source used for tie-breaking between candidates.
// *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// PickNext chooses an unplayed question, preferring the target tier.
// When no unplayed question of that tier exists it falls back to any
// unplayed question. It returns false once the pool is exhausted.
func PickNext(pool []models.Question, target models.Difficulty, played []string, rng Rand) (models.Question, bool) {
	seen := make(map[string]bool, len(played))
	for _, id := range played {
		seen[id] = true
	}

	var sameTier, unplayed []models.Question
	for _, q := range pool {
		if seen[q.ID] {
			continue
		}
		unplayed = append(unplayed, q)
		if q.Difficulty == target {
			sameTier = append(sameTier, q)
		}
	}

	candidates := sameTier
	if len(candidates) == 0 {
		candidates = unplayed
	}
	if len(candidates) == 0 {
		return models.Question{}, false
	}

	return candidates[rng.Intn(len(candidates))], true
}
