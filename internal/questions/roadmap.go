package questions

import "github.com/MarcoGiova99/tutor/internal/models"

// Status places a level on the roadmap: completed levels stay completed,
// levels whose prerequisite is met are current, the rest are locked.
func Status(l models.Level, completed map[string]bool) models.LevelStatus {
	switch {
	case completed[l.ID]:
		return models.LevelCompleted
	case l.Requires == "" || completed[l.Requires]:
		return models.LevelCurrent
	default:
		return models.LevelLocked
	}
}

func BuildRoadmap(levels []models.Level, progress map[string]models.LevelProgress) []models.RoadmapNode {
	completed := make(map[string]bool, len(progress))
	for id, p := range progress {
		if p.Completed {
			completed[id] = true
		}
	}

	nodes := make([]models.RoadmapNode, 0, len(levels))
	for _, l := range levels {
		nodes = append(nodes, models.RoadmapNode{
			Level:     l,
			Status:    Status(l, completed),
			BestScore: progress[l.ID].BestScore,
		})
	}
	return nodes
}
