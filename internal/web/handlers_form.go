package web

import (
	"net/http"

	"github.com/JonMunkholm/qbank/internal/core"
)

// formResponse is the form state plus which fields the client may edit.
type formResponse struct {
	core.Form
	Editable map[string]bool `json:"editable"`
}

func newFormResponse(f core.Form) formResponse {
	editable := make(map[string]bool, len(core.Schema))
	for _, spec := range core.Schema {
		editable[spec.Name] = f.Editable(spec.Name)
	}
	return formResponse{Form: f, Editable: editable}
}

type modeRequest struct {
	Mode       string `json:"mode" validate:"required,oneof=new edit revise"`
	QuestionID string `json:"question_id" validate:"required_unless=Mode new"`
}

type unlockRequest struct {
	Confirm bool `json:"confirm"`
}

type saveRequest struct {
	Fields map[string]string `json:"fields" validate:"required"`
}

// record keeps only known question fields from a submission.
func (req saveRequest) record() core.Record {
	rec := make(core.Record, len(req.Fields))
	for k, v := range req.Fields {
		if _, ok := core.LookupField(k); ok {
			rec[k] = v
		}
	}
	return rec
}

// saveResponse reports a save and the form state that follows it.
type saveResponse struct {
	core.SaveOutcome
	Form formResponse `json:"form"`
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, newFormResponse(s.service.Form()))
}

// handleFormMode switches between new, edit and revise.
func (s *Server) handleFormMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	mode, err := core.ParseMode(req.Mode)
	if err != nil {
		fail(w, r, err)
		return
	}
	f, err := s.service.EnterMode(r.Context(), mode, req.QuestionID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, newFormResponse(f))
}

// handleFormUnlock releases the edit lock. The client must send confirm=true.
func (s *Server) handleFormUnlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	f, err := s.service.Unlock(r.Context(), req.Confirm)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, newFormResponse(f))
}

func (s *Server) handleFormReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, newFormResponse(s.service.Reset(r.Context())))
}

// handleFormSave applies a submission according to the current mode.
func (s *Server) handleFormSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	out, err := s.service.Save(r.Context(), req.record())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, saveResponse{SaveOutcome: out, Form: newFormResponse(s.service.Form())})
}
