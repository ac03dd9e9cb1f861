package questions

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/MarcoGiova99/tutor/internal/models"
)

var ErrInvalidFile = errors.New("invalid question file")

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseImport reads a JSON array of questions, optionally wrapped in a
// markdown code fence, and returns them normalized for levelID.
func ParseImport(body []byte, levelID string) ([]models.Question, error) {
	cleaned := stripCodeFences(string(body))

	var raws []RawQuestion
	if err := json.Unmarshal([]byte(cleaned), &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	out := make([]models.Question, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw, levelID))
	}

	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// Validate checks normalized questions can be served and graded.
func Validate(qs []models.Question) error {
	if len(qs) == 0 {
		return &ValidationError{Errors: []string{"no questions in file"}}
	}

	var errs []string
	for i, q := range qs {
		qNum := i + 1

		switch q.Type {
		case models.QuestionSingleChoice:
			if len(q.Options) < 2 {
				errs = append(errs, fmt.Sprintf("question %d: expected at least 2 options, got %d", qNum, len(q.Options)))
				continue
			}
			if q.CorrectIndex == nil || *q.CorrectIndex < 0 || *q.CorrectIndex >= len(q.Options) {
				errs = append(errs, fmt.Sprintf("question %d: correct index missing or out of range", qNum))
			}
			for j, opt := range q.Options {
				if strings.TrimSpace(opt) == "" {
					errs = append(errs, fmt.Sprintf("question %d: option %d is empty", qNum, j+1))
				}
			}

		case models.QuestionLedgerEntry:
			if len(q.AvailableAccounts) == 0 {
				errs = append(errs, fmt.Sprintf("question %d: ledger question has no accounts", qNum))
			}
			for _, account := range slices.Sorted(maps.Keys(q.CorrectMapping)) {
				side := q.CorrectMapping[account]
				if side != models.SideDebit && side != models.SideCredit {
					errs = append(errs, fmt.Sprintf("question %d: account %q has invalid side %q", qNum, account, side))
				}
				if !slices.Contains(q.AvailableAccounts, account) {
					errs = append(errs, fmt.Sprintf("question %d: mapped account %q is not offered", qNum, account))
				}
			}
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
