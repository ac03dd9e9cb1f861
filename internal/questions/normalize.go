package questions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/MarcoGiova99/tutor/internal/models"
)

const (
	defaultText        = "Question text missing"
	defaultExplanation = "No explanation available"
)

// RawQuestion is a question as authored in import files. Older files use
// "question" instead of "text", "quiz" or "multiple" as the type and option
// objects carrying a "correct" flag.
type RawQuestion struct {
	ID                string            `json:"id,omitempty"`
	Type              string            `json:"type"`
	Difficulty        string            `json:"difficulty"`
	Text              string            `json:"text"`
	Question          string            `json:"question"`
	Explanation       string            `json:"explanation"`
	Options           []RawOption       `json:"options"`
	CorrectIndex      *int              `json:"correctIndex"`
	AvailableAccounts []string          `json:"availableAccounts"`
	CorrectMapping    map[string]string `json:"correctMapping"`
}

// RawOption accepts either a plain string or {"text": ..., "correct": bool}.
type RawOption struct {
	Text     string
	Correct  bool
	IsObject bool
}

func (o *RawOption) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		o.IsObject = false
		return json.Unmarshal(data, &o.Text)
	}

	var obj struct {
		Text    string `json:"text"`
		Correct bool   `json:"correct"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("option must be a string or an object: %w", err)
	}
	o.Text = obj.Text
	o.Correct = obj.Correct
	o.IsObject = true
	return nil
}

// Normalize converts a raw question to the canonical model. It never fails;
// Validate reports what is still wrong afterwards.
func Normalize(raw RawQuestion, levelID string) models.Question {
	q := models.Question{
		ID:          raw.ID,
		LevelID:     levelID,
		Difficulty:  models.ParseDifficulty(raw.Difficulty),
		Text:        firstNonEmpty(raw.Text, raw.Question, defaultText),
		Explanation: firstNonEmpty(raw.Explanation, defaultExplanation),
	}

	if isLedger(raw) {
		q.Type = models.QuestionLedgerEntry
		q.CorrectMapping = make(map[string]models.Side, len(raw.CorrectMapping))
		for account, side := range raw.CorrectMapping {
			s, ok := models.ParseSide(side)
			if !ok {
				// Kept as-is so Validate can report it.
				s = models.Side(side)
			}
			q.CorrectMapping[strings.TrimSpace(account)] = s
		}
		q.AvailableAccounts = raw.AvailableAccounts
		if len(q.AvailableAccounts) == 0 && len(q.CorrectMapping) > 0 {
			for account := range q.CorrectMapping {
				q.AvailableAccounts = append(q.AvailableAccounts, account)
			}
			sort.Strings(q.AvailableAccounts)
		}
		return q
	}

	q.Type = models.QuestionSingleChoice
	q.CorrectIndex = raw.CorrectIndex
	if len(raw.Options) > 0 && raw.Options[0].IsObject {
		correct := -1
		for i, opt := range raw.Options {
			if opt.Correct && correct < 0 {
				correct = i
			}
		}
		q.CorrectIndex = &correct
	}
	for _, opt := range raw.Options {
		q.Options = append(q.Options, opt.Text)
	}
	return q
}

func isLedger(raw RawQuestion) bool {
	switch strings.ToLower(raw.Type) {
	case "journal", "ledger", "ledger_entry":
		return true
	}
	return len(raw.AvailableAccounts) > 0 || len(raw.CorrectMapping) > 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
