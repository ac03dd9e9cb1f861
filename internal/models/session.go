package models

import "time"

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionFinished   SessionStatus = "finished"
)

// AnswerRecord is one graded answer inside a practice session.
type AnswerRecord struct {
	QuestionID string           `json:"question_id"`
	Correct    bool             `json:"correct"`
	Difficulty Difficulty       `json:"difficulty"`
	Snapshot   QuestionSnapshot `json:"snapshot"`
	AnsweredAt time.Time        `json:"answered_at"`
}

// ── Request / Response DTOs ─────────────────────────────

type StartSessionRequest struct {
	LevelID string `json:"level_id"`
}

type SessionView struct {
	ID                string          `json:"id"`
	LevelID           string          `json:"level_id"`
	Status            SessionStatus   `json:"status"`
	CurrentDifficulty Difficulty      `json:"current_difficulty"`
	QuestionNumber    int             `json:"question_number"`
	MaxQuestions      int             `json:"max_questions"`
	Question          *PublicQuestion `json:"question,omitempty"`
	Answered          bool            `json:"answered"`
	CorrectSoFar      int             `json:"correct_so_far"`
	Summary           *SessionSummary `json:"summary,omitempty"`
}

type AnswerResult struct {
	Correct        bool            `json:"correct"`
	Explanation    string          `json:"explanation"`
	CorrectIndex   *int            `json:"correct_index,omitempty"`
	CorrectMapping map[string]Side `json:"correct_mapping,omitempty"`
}

type SessionSummary struct {
	Score            int       `json:"score"`
	Correct          int       `json:"correct"`
	Total            int       `json:"total"`
	StudyTimeMinutes int       `json:"study_time_minutes"`
	NewReviewItems   int       `json:"new_review_items"`
	BestScore        int       `json:"best_score"`
	LevelCompleted   bool      `json:"level_completed"`
	FinishedAt       time.Time `json:"finished_at"`
}
