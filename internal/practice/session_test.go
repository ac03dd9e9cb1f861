package practice

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MarcoGiova99/tutor/internal/models"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestNewSessionServesMedium(t *testing.T) {
	pool := []models.Question{
		choice("e1", models.DifficultyEasy),
		choice("m1", models.DifficultyMedium),
		choice("h1", models.DifficultyHard),
	}

	s, err := NewSession("s1", "stu", "lvl-1", pool, firstPick{}, t0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.CurrentID != "m1" {
		t.Errorf("first question = %q, want m1", s.CurrentID)
	}
	if s.CurrentDifficulty != models.DifficultyMedium {
		t.Errorf("difficulty = %q, want medium", s.CurrentDifficulty)
	}
	if s.Served != 1 || s.Status != models.SessionInProgress {
		t.Errorf("served = %d status = %q, want 1 in_progress", s.Served, s.Status)
	}
}

func TestNewSessionEmptyPool(t *testing.T) {
	_, err := NewSession("s1", "stu", "lvl-1", nil, firstPick{}, t0)
	if !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("err = %v, want ErrEmptyPool", err)
	}
}

func TestSessionAdaptsToAnswers(t *testing.T) {
	pool := []models.Question{
		choice("e1", models.DifficultyEasy),
		choice("e2", models.DifficultyEasy),
		choice("m1", models.DifficultyMedium),
		choice("m2", models.DifficultyMedium),
		choice("h1", models.DifficultyHard),
		choice("h2", models.DifficultyHard),
	}
	s, err := NewSession("s1", "stu", "lvl-1", pool, firstPick{}, t0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	steps := []struct {
		answer   models.Submission
		wantID   string
		wantTier models.Difficulty
	}{
		{rightAnswer, "h1", models.DifficultyHard},
		{wrongAnswer, "m2", models.DifficultyMedium},
		{wrongAnswer, "e1", models.DifficultyEasy},
		{wrongAnswer, "e2", models.DifficultyEasy},
		{rightAnswer, "h2", models.DifficultyMedium},
	}

	for i, step := range steps {
		if _, err := s.Check(step.answer, t0); err != nil {
			t.Fatalf("step %d: Check: %v", i, err)
		}
		finished, err := s.Advance(firstPick{}, t0)
		if err != nil || finished {
			t.Fatalf("step %d: Advance = %v, %v", i, finished, err)
		}
		if s.CurrentID != step.wantID {
			t.Errorf("step %d: current = %q, want %q", i, s.CurrentID, step.wantID)
		}
		if s.CurrentDifficulty != step.wantTier {
			t.Errorf("step %d: tier = %q, want %q", i, s.CurrentDifficulty, step.wantTier)
		}
	}
}

func TestSessionStopsAtMaxQuestions(t *testing.T) {
	var pool []models.Question
	for i := 0; i < MaxQuestions+5; i++ {
		pool = append(pool, choice(fmt.Sprintf("m%d", i), models.DifficultyMedium))
	}
	s, err := NewSession("s1", "stu", "lvl-1", pool, firstPick{}, t0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	for i := 1; i < MaxQuestions; i++ {
		if _, err := s.Check(rightAnswer, t0); err != nil {
			t.Fatalf("question %d: Check: %v", i, err)
		}
		finished, err := s.Advance(firstPick{}, t0)
		if err != nil || finished {
			t.Fatalf("question %d: Advance = %v, %v", i, finished, err)
		}
	}
	if s.Served != MaxQuestions {
		t.Fatalf("served = %d, want %d", s.Served, MaxQuestions)
	}

	if _, err := s.Check(rightAnswer, t0); err != nil {
		t.Fatalf("last Check: %v", err)
	}
	finished, err := s.Advance(firstPick{}, t0)
	if err != nil || !finished {
		t.Fatalf("last Advance = %v, %v, want finished", finished, err)
	}
	if len(s.History) != MaxQuestions {
		t.Errorf("history = %d, want %d", len(s.History), MaxQuestions)
	}
	if s.Score() != 100 {
		t.Errorf("score = %d, want 100", s.Score())
	}
	if s.CurrentID != "" {
		t.Errorf("finished session still shows %q", s.CurrentID)
	}
}

func TestSessionFinishesWhenPoolRunsOut(t *testing.T) {
	pool := []models.Question{
		choice("m1", models.DifficultyMedium),
		choice("e1", models.DifficultyEasy),
	}
	s, _ := NewSession("s1", "stu", "lvl-1", pool, firstPick{}, t0)

	s.Check(rightAnswer, t0)
	if finished, _ := s.Advance(firstPick{}, t0); finished {
		t.Fatal("session finished with one question left")
	}
	s.Check(rightAnswer, t0)
	finished, err := s.Advance(firstPick{}, t0)
	if err != nil || !finished {
		t.Fatalf("Advance = %v, %v, want finished", finished, err)
	}
	if s.Status != models.SessionFinished || s.FinishedAt == nil {
		t.Errorf("status = %q finishedAt = %v", s.Status, s.FinishedAt)
	}
}

func TestCheckTwice(t *testing.T) {
	s, _ := NewSession("s1", "stu", "lvl-1", []models.Question{choice("m1", models.DifficultyMedium)}, firstPick{}, t0)

	if _, err := s.Check(rightAnswer, t0); err != nil {
		t.Fatalf("first Check: %v", err)
	}
	if _, err := s.Check(wrongAnswer, t0); !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("second Check err = %v, want ErrAlreadyAnswered", err)
	}
	if len(s.History) != 1 || !s.History[0].Correct {
		t.Errorf("history = %+v, want one correct answer", s.History)
	}
}

func TestAdvanceGradesUnansweredQuestion(t *testing.T) {
	pool := []models.Question{
		choice("m1", models.DifficultyMedium),
		choice("e1", models.DifficultyEasy),
		choice("h1", models.DifficultyHard),
	}
	s, _ := NewSession("s1", "stu", "lvl-1", pool, firstPick{}, t0)

	if _, err := s.Advance(firstPick{}, t0); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if len(s.History) != 1 || s.History[0].Correct {
		t.Fatalf("history = %+v, want one wrong answer", s.History)
	}
	if s.CurrentID != "e1" {
		t.Errorf("current = %q, want e1 after a skipped question", s.CurrentID)
	}
}

func TestFinishedSessionRejectsActions(t *testing.T) {
	s, _ := NewSession("s1", "stu", "lvl-1", []models.Question{choice("m1", models.DifficultyMedium)}, firstPick{}, t0)
	s.Check(rightAnswer, t0)
	if finished, _ := s.Advance(firstPick{}, t0); !finished {
		t.Fatal("expected session to finish")
	}

	if _, err := s.Check(rightAnswer, t0); !errors.Is(err, ErrSessionFinished) {
		t.Errorf("Check err = %v, want ErrSessionFinished", err)
	}
	if _, err := s.Advance(firstPick{}, t0); !errors.Is(err, ErrSessionFinished) {
		t.Errorf("Advance err = %v, want ErrSessionFinished", err)
	}
}

func TestScoreAndMisses(t *testing.T) {
	blank := choice("h1", models.DifficultyHard)
	blank.Text = "   "
	pool := []models.Question{
		choice("m1", models.DifficultyMedium),
		blank,
		choice("m2", models.DifficultyMedium),
	}
	s, _ := NewSession("s1", "stu", "lvl-1", pool, firstPick{}, t0)

	s.Check(rightAnswer, t0) // m1
	s.Advance(firstPick{}, t0)
	s.Check(wrongAnswer, t0) // h1, blank text
	s.Advance(firstPick{}, t0)
	s.Check(wrongAnswer, t0) // m2
	s.Advance(firstPick{}, t0)

	if got := s.Score(); got != 33 {
		t.Errorf("score = %d, want 33", got)
	}
	misses := s.Misses()
	if len(misses) != 1 || misses[0].QuestionID != "m2" {
		t.Errorf("misses = %+v, want only m2", misses)
	}
	if misses[0].Snapshot.Text != "Question m2" {
		t.Errorf("snapshot text = %q", misses[0].Snapshot.Text)
	}
}

func TestScoreWithoutAnswers(t *testing.T) {
	s := &Session{}
	if s.Score() != 0 {
		t.Errorf("score = %d, want 0", s.Score())
	}
}

func TestStudyMinutesRounds(t *testing.T) {
	s, _ := NewSession("s1", "stu", "lvl-1", []models.Question{choice("m1", models.DifficultyMedium)}, firstPick{}, t0)
	if s.StudyMinutes() != 0 {
		t.Errorf("unfinished session minutes = %d, want 0", s.StudyMinutes())
	}
	s.Check(rightAnswer, t0)
	s.Advance(firstPick{}, t0.Add(12*time.Minute+40*time.Second))

	if got := s.StudyMinutes(); got != 13 {
		t.Errorf("minutes = %d, want 13", got)
	}
}

func TestViewHidesAnswerKey(t *testing.T) {
	s, _ := NewSession("s1", "stu", "lvl-1", []models.Question{choice("m1", models.DifficultyMedium)}, firstPick{}, t0)

	v := s.View()
	if v.Question == nil || v.Question.ID != "m1" {
		t.Fatalf("view question = %+v", v.Question)
	}
	if v.QuestionNumber != 1 || v.MaxQuestions != MaxQuestions {
		t.Errorf("number = %d of %d", v.QuestionNumber, v.MaxQuestions)
	}
	if len(v.Question.Options) != 2 {
		t.Errorf("options = %v", v.Question.Options)
	}
}
