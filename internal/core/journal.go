package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JournalAction names a change made to the session.
type JournalAction string

const (
	ActionImport      JournalAction = "import"
	ActionHistoryLoad JournalAction = "history_load"
	ActionCreate      JournalAction = "create"
	ActionRevise      JournalAction = "revise"
	ActionEdit        JournalAction = "edit"
	ActionUnlock      JournalAction = "unlock"
)

// JournalSeverity ranks how much an action can disturb existing records.
type JournalSeverity string

const (
	SeverityLow      JournalSeverity = "low"
	SeverityMedium   JournalSeverity = "medium"
	SeverityHigh     JournalSeverity = "high"
	SeverityCritical JournalSeverity = "critical"
)

// JournalEntry is one recorded session change.
type JournalEntry struct {
	ID           string          `json:"id"`
	Action       JournalAction   `json:"action"`
	Severity     JournalSeverity `json:"severity"`
	QuestionID   string          `json:"questionId,omitempty"`
	FileName     string          `json:"fileName,omitempty"`
	ImportID     string          `json:"importId,omitempty"`
	RowsAffected int             `json:"rowsAffected,omitempty"`
	IPAddress    string          `json:"ipAddress,omitempty"`
	UserAgent    string          `json:"userAgent,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// determineSeverity returns the severity for an action.
func determineSeverity(action JournalAction) JournalSeverity {
	switch action {
	case ActionUnlock:
		return SeverityCritical
	case ActionImport, ActionEdit:
		return SeverityHigh
	case ActionHistoryLoad:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// DefaultJournalSize bounds the number of entries kept.
const DefaultJournalSize = 500

// Journal keeps the most recent session changes in memory.
type Journal struct {
	mu      sync.RWMutex
	entries []JournalEntry
	max     int
}

// NewJournal returns a journal keeping at most max entries.
func NewJournal(max int) *Journal {
	if max <= 0 {
		max = DefaultJournalSize
	}
	return &Journal{max: max}
}

// Add records e, filling in its ID, severity, time and the client stored
// in ctx by ContextWithClient.
func (j *Journal) Add(ctx context.Context, e JournalEntry, now time.Time) JournalEntry {
	e.ID = uuid.NewString()
	e.IPAddress, e.UserAgent = clientFromContext(ctx)
	e.Severity = determineSeverity(e.Action)
	e.CreatedAt = now

	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	if over := len(j.entries) - j.max; over > 0 {
		j.entries = append([]JournalEntry(nil), j.entries[over:]...)
	}
	return e
}

// Entries returns recorded changes, newest first.
func (j *Journal) Entries() []JournalEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]JournalEntry, len(j.entries))
	for i, e := range j.entries {
		out[len(j.entries)-1-i] = e
	}
	return out
}
