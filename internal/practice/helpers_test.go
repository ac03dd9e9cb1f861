package practice

import "github.com/MarcoGiova99/tutor/internal/models"

// firstPick always chooses the first candidate.
type firstPick struct{}

func (firstPick) Intn(int) int { return 0 }

// lastPick always chooses the last candidate.
type lastPick struct{}

func (lastPick) Intn(n int) int { return n - 1 }

func intPtr(i int) *int { return &i }

// choice builds a two-option question whose correct answer is index 1.
func choice(id string, d models.Difficulty) models.Question {
	return models.Question{
		ID:           id,
		LevelID:      "lvl-1",
		Type:         models.QuestionSingleChoice,
		Difficulty:   d,
		Text:         "Question " + id,
		Explanation:  "Because " + id,
		Options:      []string{"wrong", "right"},
		CorrectIndex: intPtr(1),
	}
}

var (
	rightAnswer = models.Submission{SelectedIndex: intPtr(1)}
	wrongAnswer = models.Submission{SelectedIndex: intPtr(0)}
)
