package core

import (
	"strings"

	"github.com/JonMunkholm/qbank/internal/csv"
)

// HistoryEntry records one past use of a question in an exam. Entries are
// never merged into question records; they are joined by identifier on display.
type HistoryEntry struct {
	QuestionID     string `json:"question_id"`
	ExamName       string `json:"exam_name"`
	ExamDate       string `json:"exam_date"`
	QuestionNumber string `json:"question_number"`
	CorrectRate    string `json:"correct_rate"`
}

// String renders the entry as "exam / date / number / rate".
func (h HistoryEntry) String() string {
	return strings.Join([]string{h.ExamName, h.ExamDate, h.QuestionNumber, h.CorrectRate}, " / ")
}

// History is the loaded exam history, kept in file order.
type History struct {
	entries []HistoryEntry
}

// ParseHistory reads every data row of table as a history entry.
func ParseHistory(table csv.Table) History {
	entries := make([]HistoryEntry, 0, len(table.Rows))
	for _, row := range table.Rows {
		rec := table.Record(row)
		entries = append(entries, HistoryEntry{
			QuestionID:     rec["question_id"],
			ExamName:       rec["exam_name"],
			ExamDate:       rec["exam_date"],
			QuestionNumber: rec["question_number"],
			CorrectRate:    rec["correct_rate"],
		})
	}
	return History{entries: entries}
}

// Len returns the number of entries.
func (h History) Len() int {
	return len(h.entries)
}

// For returns the entries whose question_id equals id exactly.
func (h History) For(id string) []HistoryEntry {
	out := []HistoryEntry{}
	for _, e := range h.entries {
		if e.QuestionID == id {
			out = append(out, e)
		}
	}
	return out
}
