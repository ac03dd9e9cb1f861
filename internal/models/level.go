package models

import "time"

type LevelStatus string

const (
	LevelLocked    LevelStatus = "locked"
	LevelCurrent   LevelStatus = "current"
	LevelCompleted LevelStatus = "completed"
)

// PassingScore is the best score at which a level counts as completed.
const PassingScore = 80

type Level struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Position int    `json:"position"`
	Requires string `json:"requires,omitempty"`
}

type LevelProgress struct {
	StudentID string    `json:"-"`
	LevelID   string    `json:"level_id"`
	BestScore int       `json:"best_score"`
	Completed bool      `json:"completed"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RoadmapNode struct {
	Level
	Status    LevelStatus `json:"status"`
	BestScore int         `json:"best_score"`
}

type ImportResult struct {
	LevelID  string `json:"level_id"`
	Imported int    `json:"imported"`
}

// LevelReport summarizes the questions stored for a level.
type LevelReport struct {
	LevelID      string               `json:"level_id"`
	Total        int                  `json:"total"`
	ByDifficulty map[Difficulty]int   `json:"by_difficulty"`
	ByType       map[QuestionType]int `json:"by_type"`
	Questions    []Question           `json:"questions"`
}
