package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/qbank/internal/core"
	"github.com/JonMunkholm/qbank/internal/web/templates"
)

// filterFromQuery reads list criteria from the URL.
func filterFromQuery(r *http.Request) core.Filter {
	q := r.URL.Query()
	return core.Filter{
		Keyword:    q.Get("q"),
		Domain:     q.Get("domain"),
		Language:   q.Get("language"),
		Difficulty: q.Get("difficulty"),
		Active:     q.Get("active"),
	}
}

// handleListQuestions returns the filtered question list.
func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	rows := s.service.Search(filterFromQuery(r))
	if wantsHTML(r) {
		_ = templates.QuestionRows(rows).Render(r.Context(), w)
		return
	}
	writeJSON(w, map[string]any{"count": len(rows), "questions": rows})
}

// handleQuestionDetail returns one record with its relations and history.
func (s *Server) handleQuestionDetail(w http.ResponseWriter, r *http.Request) {
	d, err := s.service.Detail(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	if wantsHTML(r) {
		_ = templates.QuestionDetail(d).Render(r.Context(), w)
		return
	}
	writeJSON(w, d)
}

// handleCase returns the members of a case.
func (s *Server) handleCase(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	g := s.service.CaseMembers(caseID)
	if len(g.MemberIDs) == 0 {
		fail(w, r, fmt.Errorf("case %q: %w", caseID, core.ErrRecordNotFound))
		return
	}
	writeJSON(w, g)
}

// handleRevisions returns the revision group of a record.
func (s *Server) handleRevisions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.service.Get(id); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, s.service.RevisionGroup(id))
}
