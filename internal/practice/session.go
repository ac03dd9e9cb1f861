package practice

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/MarcoGiova99/tutor/internal/models"
)

// MaxQuestions is the number of questions served before a session ends.
const MaxQuestions = 10

var (
	ErrEmptyPool         = errors.New("no questions available for this level")
	ErrAlreadyAnswered   = errors.New("current question already answered")
	ErrSessionFinished   = errors.New("session already finished")
	ErrNoCurrentQuestion = errors.New("no question is being shown")
)

// Session is the state of one adaptive practice run. It is stored as JSON
// between requests, so every field is exported.
type Session struct {
	ID                string                 `json:"id"`
	StudentID         string                 `json:"student_id"`
	LevelID           string                 `json:"level_id"`
	Status            models.SessionStatus   `json:"status"`
	Pool              []models.Question      `json:"pool"`
	CurrentDifficulty models.Difficulty      `json:"current_difficulty"`
	CurrentID         string                 `json:"current_id"`
	Checked           bool                   `json:"checked"`
	Served            int                    `json:"served"`
	PlayedIDs         []string               `json:"played_ids"`
	History           []models.AnswerRecord  `json:"history"`
	StartedAt         time.Time              `json:"started_at"`
	FinishedAt        *time.Time             `json:"finished_at,omitempty"`
	Effects           FinishEffects          `json:"effects"`
	Summary           *models.SessionSummary `json:"summary,omitempty"`
}

// FinishEffects records which finish effects have been applied, so a finish
// that failed part way can be resumed without repeating the earlier ones.
type FinishEffects struct {
	ActivityApplied bool `json:"activity_applied"`
	MissesRecorded  bool `json:"misses_recorded"`
	ScoreRecorded   bool `json:"score_recorded"`
	NewReviewItems  int  `json:"new_review_items"`
	BestScore       int  `json:"best_score"`
	LevelCompleted  bool `json:"level_completed"`
}

// Pending reports whether the session ended but its effects are incomplete.
func (s *Session) Pending() bool {
	return s.Status == models.SessionFinished && s.Summary == nil
}

// NewSession starts at medium difficulty and serves the first question.
func NewSession(id, studentID, levelID string, pool []models.Question, rng Rand, now time.Time) (*Session, error) {
	s := &Session{
		ID:                id,
		StudentID:         studentID,
		LevelID:           levelID,
		Status:            models.SessionInProgress,
		Pool:              pool,
		CurrentDifficulty: models.DifficultyMedium,
		StartedAt:         now,
	}

	q, ok := PickNext(pool, models.DifficultyMedium, nil, rng)
	if !ok {
		return nil, ErrEmptyPool
	}
	s.serve(q)
	return s, nil
}

func (s *Session) serve(q models.Question) {
	s.CurrentID = q.ID
	s.Checked = false
	s.Served++
	s.PlayedIDs = append(s.PlayedIDs, q.ID)
}

// Current returns the question being shown.
func (s *Session) Current() (models.Question, bool) {
	if s.CurrentID == "" {
		return models.Question{}, false
	}
	for _, q := range s.Pool {
		if q.ID == s.CurrentID {
			return q, true
		}
	}
	return models.Question{}, false
}

// Check grades sub against the current question and records the answer.
func (s *Session) Check(sub models.Submission, now time.Time) (models.AnswerRecord, error) {
	if s.Status == models.SessionFinished {
		return models.AnswerRecord{}, ErrSessionFinished
	}
	if s.Checked {
		return models.AnswerRecord{}, ErrAlreadyAnswered
	}

	q, ok := s.Current()
	if !ok {
		return models.AnswerRecord{}, ErrNoCurrentQuestion
	}

	rec := models.AnswerRecord{
		QuestionID: q.ID,
		Correct:    Grade(q, sub),
		Difficulty: q.Difficulty,
		Snapshot:   q.Snapshot(),
		AnsweredAt: now,
	}
	s.History = append(s.History, rec)
	s.Checked = true
	return rec, nil
}

// Advance moves to the next question, or finishes the session when the
// question limit is reached or the pool runs out. An unanswered current
// question is graded as an empty submission first.
func (s *Session) Advance(rng Rand, now time.Time) (finished bool, err error) {
	if s.Status == models.SessionFinished {
		return true, ErrSessionFinished
	}
	if !s.Checked {
		if _, err := s.Check(models.Submission{}, now); err != nil {
			return false, err
		}
	}

	if s.Served >= MaxQuestions {
		s.finish(now)
		return true, nil
	}

	last := s.History[len(s.History)-1]
	tier := NextDifficulty(s.CurrentDifficulty, last.Correct)

	q, ok := PickNext(s.Pool, tier, s.PlayedIDs, rng)
	if !ok {
		s.finish(now)
		return true, nil
	}

	s.CurrentDifficulty = tier
	s.serve(q)
	return false, nil
}

func (s *Session) finish(now time.Time) {
	s.Status = models.SessionFinished
	s.CurrentID = ""
	s.FinishedAt = &now
}

// CorrectCount returns the number of correct answers so far.
func (s *Session) CorrectCount() int {
	n := 0
	for _, rec := range s.History {
		if rec.Correct {
			n++
		}
	}
	return n
}

// Score is round(100 * correct / answered), or 0 with no answers.
func (s *Session) Score() int {
	if len(s.History) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.CorrectCount()) / float64(len(s.History))))
}

// StudyMinutes is the elapsed session time rounded to whole minutes.
func (s *Session) StudyMinutes() int {
	if s.FinishedAt == nil {
		return 0
	}
	return int(math.Round(s.FinishedAt.Sub(s.StartedAt).Minutes()))
}

// Misses returns the wrong answers that carry enough text to be reviewed.
func (s *Session) Misses() []models.AnswerRecord {
	var out []models.AnswerRecord
	for _, rec := range s.History {
		if rec.Correct || strings.TrimSpace(rec.Snapshot.Text) == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// View renders the session for the student without answer keys.
func (s *Session) View() models.SessionView {
	v := models.SessionView{
		ID:                s.ID,
		LevelID:           s.LevelID,
		Status:            s.Status,
		CurrentDifficulty: s.CurrentDifficulty,
		QuestionNumber:    s.Served,
		MaxQuestions:      MaxQuestions,
		Answered:          s.Checked,
		CorrectSoFar:      s.CorrectCount(),
		Summary:           s.Summary,
	}
	if q, ok := s.Current(); ok {
		pub := q.Public()
		v.Question = &pub
	}
	return v
}
