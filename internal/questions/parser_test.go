package questions

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/MarcoGiova99/tutor/internal/models"
)

func validFileJSON(count int) string {
	raws := make([]map[string]interface{}, count)
	for i := 0; i < count; i++ {
		raws[i] = map[string]interface{}{
			"type":         "single_choice",
			"difficulty":   []string{"easy", "medium", "hard"}[i%3],
			"text":         fmt.Sprintf("Question %d: which account records cash received?", i+1),
			"explanation":  "Cash is an asset and increases on the debit side.",
			"options":      []string{"Revenue", "Cash", "Payables"},
			"correctIndex": 1,
		}
	}
	data, _ := json.Marshal(raws)
	return string(data)
}

func TestParseImport_ValidJSON(t *testing.T) {
	qs, err := ParseImport([]byte(validFileJSON(6)), "lvl-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(qs) != 6 {
		t.Errorf("expected 6 questions, got %d", len(qs))
	}

	for i, q := range qs {
		if q.LevelID != "lvl-1" {
			t.Errorf("question %d: level = %q", i+1, q.LevelID)
		}
		if q.Type != models.QuestionSingleChoice {
			t.Errorf("question %d: type = %q", i+1, q.Type)
		}
		if q.CorrectIndex == nil || *q.CorrectIndex != 1 {
			t.Errorf("question %d: correct index = %v", i+1, q.CorrectIndex)
		}
	}
}

func TestParseImport_MarkdownFences(t *testing.T) {
	input := "```json\n" + validFileJSON(3) + "\n```"

	qs, err := ParseImport([]byte(input), "lvl-1")
	if err != nil {
		t.Fatalf("expected no error with markdown fences, got: %v", err)
	}

	if len(qs) != 3 {
		t.Errorf("expected 3 questions, got %d", len(qs))
	}
}

func TestParseImport_PlainFences(t *testing.T) {
	input := "```\n" + validFileJSON(2) + "\n```"

	if _, err := ParseImport([]byte(input), "lvl-1"); err != nil {
		t.Fatalf("expected no error with plain fences, got: %v", err)
	}
}

func TestParseImport_InvalidJSON(t *testing.T) {
	_, err := ParseImport([]byte("this is not json at all"), "lvl-1")
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if !errors.Is(err, ErrInvalidFile) {
		t.Errorf("expected ErrInvalidFile, got: %v", err)
	}
}

func TestParseImport_EmptyArray(t *testing.T) {
	_, err := ParseImport([]byte("[]"), "lvl-1")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got: %v", err)
	}
}

func TestParseImport_TooFewOptions(t *testing.T) {
	input := `[{"text": "Only one option", "options": ["Cash"], "correctIndex": 0}]`

	_, err := ParseImport([]byte(input), "lvl-1")
	if err == nil {
		t.Fatal("expected error for a single option, got nil")
	}
	if !strings.Contains(err.Error(), "at least 2 options") {
		t.Errorf("expected option count error, got: %v", err)
	}
}

func TestParseImport_CorrectIndexOutOfRange(t *testing.T) {
	input := `[{"text": "Pick one", "options": ["A", "B"], "correctIndex": 4}]`

	_, err := ParseImport([]byte(input), "lvl-1")
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("expected range error, got: %v", err)
	}
}

func TestParseImport_ObjectOptionsWithoutCorrect(t *testing.T) {
	input := `[{"text": "Pick one", "options": [{"text": "A"}, {"text": "B"}]}]`

	_, err := ParseImport([]byte(input), "lvl-1")
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("expected missing correct option error, got: %v", err)
	}
}

func TestParseImport_LedgerInvalidSide(t *testing.T) {
	input := `[{
		"type": "journal",
		"text": "Record the sale",
		"availableAccounts": ["Cash", "Revenue"],
		"correctMapping": {"Cash": "dare", "Revenue": "sideways"}
	}]`

	_, err := ParseImport([]byte(input), "lvl-1")
	if err == nil {
		t.Fatal("expected error for invalid side, got nil")
	}
	if !strings.Contains(err.Error(), `invalid side "sideways"`) {
		t.Errorf("expected invalid side error, got: %v", err)
	}
}

func TestParseImport_LedgerUnofferedAccount(t *testing.T) {
	input := `[{
		"type": "ledger",
		"text": "Record the purchase",
		"availableAccounts": ["Cash"],
		"correctMapping": {"Cash": "credit", "Inventory": "debit"}
	}]`

	_, err := ParseImport([]byte(input), "lvl-1")
	if err == nil || !strings.Contains(err.Error(), `"Inventory" is not offered`) {
		t.Errorf("expected unoffered account error, got: %v", err)
	}
}

func TestParseImport_LedgerErrorsInAccountOrder(t *testing.T) {
	input := `[{
		"type": "ledger",
		"text": "Record the payroll",
		"availableAccounts": ["Cash"],
		"correctMapping": {"Wages": "debit", "Cash": "credit", "Payables": "credit", "Accruals": "debit"}
	}]`

	for i := 0; i < 20; i++ {
		_, err := ParseImport([]byte(input), "lvl-1")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got: %v", err)
		}
		want := []string{
			`question 1: mapped account "Accruals" is not offered`,
			`question 1: mapped account "Payables" is not offered`,
			`question 1: mapped account "Wages" is not offered`,
		}
		if strings.Join(verr.Errors, "|") != strings.Join(want, "|") {
			t.Fatalf("errors = %v, want %v", verr.Errors, want)
		}
	}
}

func TestParseImport_ReportsEveryProblem(t *testing.T) {
	input := `[
		{"text": "ok", "options": ["A", "B"], "correctIndex": 0},
		{"text": "bad", "options": ["A"]},
		{"text": "blank", "options": ["A", " "], "correctIndex": 0}
	]`

	_, err := ParseImport([]byte(input), "lvl-1")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got: %v", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d: %v", len(verr.Errors), verr.Errors)
	}
	if !strings.HasPrefix(verr.Errors[0], "question 2:") || !strings.HasPrefix(verr.Errors[1], "question 3:") {
		t.Errorf("errors not numbered by question: %v", verr.Errors)
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"```json\n[1]\n```", "[1]"},
		{"```\n[1]\n```", "[1]"},
		{"  [1]  ", "[1]"},
		{"[1]", "[1]"},
	}
	for _, tt := range tests {
		if got := stripCodeFences(tt.input); got != tt.expected {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
