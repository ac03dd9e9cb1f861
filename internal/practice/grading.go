package practice

import "github.com/MarcoGiova99/tutor/internal/models"

// Grade reports whether sub answers q correctly.
func Grade(q models.Question, sub models.Submission) bool {
	switch q.Type {
	case models.QuestionLedgerEntry:
		return gradeLedger(q.CorrectMapping, DedupEntries(sub.Entries))
	default:
		return sub.SelectedIndex != nil && q.CorrectIndex != nil && *sub.SelectedIndex == *q.CorrectIndex
	}
}

// DedupEntries drops repeated (account, side) pairs, keeping first-seen order.
func DedupEntries(entries []models.LedgerEntry) []models.LedgerEntry {
	seen := make(map[models.LedgerEntry]bool, len(entries))
	out := make([]models.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

func gradeLedger(mapping map[string]models.Side, entries []models.LedgerEntry) bool {
	if len(mapping) == 0 {
		// Without an answer key any balanced entry counts.
		var debit, credit bool
		for _, e := range entries {
			switch e.Side {
			case models.SideDebit:
				debit = true
			case models.SideCredit:
				credit = true
			}
		}
		return debit && credit
	}

	if len(entries) == 0 || len(entries) != len(mapping) {
		return false
	}

	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		want, ok := mapping[e.Account]
		if !ok || want != e.Side {
			return false
		}
		present[e.Account] = true
	}

	for account := range mapping {
		if !present[account] {
			return false
		}
	}
	return true
}
