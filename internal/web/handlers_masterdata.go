package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/qbank/internal/masterdata"
)

type insertQuery struct {
	ID    string `json:"id" validate:"required"`
	Field string `json:"field" validate:"required"`
}

func (s *Server) handleMasterData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"version": s.masters.Version(),
		"data":    s.masters.Get(),
	})
}

// handleKeywordSuggest returns keyword candidates; with "list" set it also
// returns the list with the first candidate added.
func (s *Server) handleKeywordSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	suggestions := masterdata.Suggest(s.masters.Get().Keywords, q.Get("q"))
	resp := map[string]any{"suggestions": suggestions}
	if add := q.Get("add"); add != "" {
		resp["keywords"] = masterdata.AddKeyword(q.Get("list"), add)
	}
	writeJSON(w, resp)
}

// handleTemplateInsert returns a template's text cleaned for the target field.
func (s *Server) handleTemplateInsert(w http.ResponseWriter, r *http.Request) {
	query := insertQuery{ID: chi.URLParam(r, "id"), Field: r.URL.Query().Get("field")}
	if err := validate.Struct(query); err != nil {
		fail(w, r, translateErrors(err))
		return
	}
	text, err := s.masters.Get().InsertText(query.ID, query.Field)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"field": query.Field, "text": text})
}
