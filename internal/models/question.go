package models

import (
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// ParseDifficulty lowercases s and falls back to medium for empty or unknown tiers.
func ParseDifficulty(s string) Difficulty {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !ValidDifficulties[d] {
		return DifficultyMedium
	}
	return d
}

type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single_choice"
	QuestionLedgerEntry  QuestionType = "ledger_entry"
)

// Side is the column of a ledger entry.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// ParseSide accepts the English names and the Italian "dare"/"avere".
func ParseSide(s string) (Side, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debit", "dare":
		return SideDebit, true
	case "credit", "avere":
		return SideCredit, true
	}
	return "", false
}

type Question struct {
	ID                string          `json:"id"`
	LevelID           string          `json:"level_id"`
	Type              QuestionType    `json:"type"`
	Difficulty        Difficulty      `json:"difficulty"`
	Text              string          `json:"text"`
	Explanation       string          `json:"explanation"`
	Options           []string        `json:"options,omitempty"`
	CorrectIndex      *int            `json:"correct_index,omitempty"`
	AvailableAccounts []string        `json:"available_accounts,omitempty"`
	CorrectMapping    map[string]Side `json:"correct_mapping,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Snapshot copies the parts of a question a later review needs.
func (q Question) Snapshot() QuestionSnapshot {
	return QuestionSnapshot{Text: q.Text, Explanation: q.Explanation}
}

// Public strips the answer key so the question can be shown to a student.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:                q.ID,
		Type:              q.Type,
		Difficulty:        q.Difficulty,
		Text:              q.Text,
		Options:           q.Options,
		AvailableAccounts: q.AvailableAccounts,
	}
}

type QuestionSnapshot struct {
	Text        string `json:"text"`
	Explanation string `json:"explanation"`
}

type PublicQuestion struct {
	ID                string       `json:"id"`
	Type              QuestionType `json:"type"`
	Difficulty        Difficulty   `json:"difficulty"`
	Text              string       `json:"text"`
	Options           []string     `json:"options,omitempty"`
	AvailableAccounts []string     `json:"available_accounts,omitempty"`
}

type LedgerEntry struct {
	Account string `json:"account"`
	Side    Side   `json:"side"`
}

// Submission is a student's answer. SelectedIndex is used for single-choice
// questions and Entries for ledger questions.
type Submission struct {
	SelectedIndex *int          `json:"selected_index,omitempty"`
	Entries       []LedgerEntry `json:"entries,omitempty"`
}
