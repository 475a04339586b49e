package web

import (
	"net/http"

	"github.com/JonMunkholm/qbank/internal/core"
)

// handleJournal lists session changes, newest first, optionally filtered
// by action and severity.
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	action := core.JournalAction(r.URL.Query().Get("action"))
	severity := core.JournalSeverity(r.URL.Query().Get("severity"))

	entries := []core.JournalEntry{}
	for _, e := range s.service.Journal() {
		if action != "" && e.Action != action {
			continue
		}
		if severity != "" && e.Severity != severity {
			continue
		}
		entries = append(entries, e)
	}
	writeJSON(w, map[string]any{"count": len(entries), "entries": entries})
}
